package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Manager serializes turns per session and persists each session's memory.
type Manager struct {
	store      Store
	summarizer Summarizer
	windowSize int
	history    func(userID int64, sessionID string) schema.ChatMessageHistory

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is dropped from Manager.locks once no caller holds or waits for it.
type sessionLock struct {
	ch   chan struct{}
	refs int
}

type ManagerOption func(*Manager)

// WithHistory seeds the window of sessions missing from the store with the tail of a
// durable message history.
func WithHistory(fn func(userID int64, sessionID string) schema.ChatMessageHistory) ManagerOption {
	return func(m *Manager) {
		m.history = fn
	}
}

func NewManager(store Store, summarizer Summarizer, windowSize int, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		summarizer: summarizer,
		windowSize: windowSize,
		locks:      make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func Key(userID int64, sessionID string) string {
	return fmt.Sprintf("%d:%s", userID, sessionID)
}

// Lease is exclusive access to one session's conversation for the duration of a turn.
type Lease struct {
	*Conversation

	m        *Manager
	key      string
	release  func()
	released bool
}

// Acquire blocks until no other turn of the session is in flight, then loads its conversation.
// The caller must Release the lease.
func (m *Manager) Acquire(ctx context.Context, userID int64, sessionID string) (*Lease, error) {
	key := Key(userID, sessionID)
	release, err := m.lock(ctx, key)
	if err != nil {
		return nil, err
	}

	state, ok, err := m.store.Load(ctx, key)
	if err != nil {
		release()
		return nil, fmt.Errorf("load session %s: %w", key, err)
	}
	if !ok && m.history != nil {
		state, err = m.warm(ctx, userID, sessionID)
		if err != nil {
			release()
			return nil, fmt.Errorf("warm session %s: %w", key, err)
		}
	}

	return &Lease{
		Conversation: newConversation(m.windowSize, state),
		m:            m,
		key:          key,
		release:      release,
	}, nil
}

// Commit appends turn to the window, then regenerates the summary from the prior summary
// and turn. Nothing is persisted unless both succeed.
func (l *Lease) Commit(ctx context.Context, turn Turn) error {
	prior := l.summary
	if err := l.append(ctx, turn); err != nil {
		return err
	}

	summary, err := l.m.summarizer.Summarize(ctx, prior, turn)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	l.summary = summary

	state, err := l.state(ctx)
	if err != nil {
		return err
	}
	return l.m.store.Save(ctx, l.key, state)
}

func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true
	l.release()
}

// Clear resets the session's window and summary. The message log is kept.
func (m *Manager) Clear(ctx context.Context, userID int64, sessionID string) error {
	key := Key(userID, sessionID)
	release, err := m.lock(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	// an explicit empty state keeps the log from re-seeding the window
	return m.store.Save(ctx, key, State{})
}

// Forget drops the session's memory entirely.
func (m *Manager) Forget(ctx context.Context, userID int64, sessionID string) error {
	key := Key(userID, sessionID)
	release, err := m.lock(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return m.store.Delete(ctx, key)
}

func (m *Manager) lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sessionLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			m.unref(key, l)
		}, nil
	case <-ctx.Done():
		m.unref(key, l)
		return nil, ctx.Err()
	}
}

func (m *Manager) unref(key string, l *sessionLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}

func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *Manager) warm(ctx context.Context, userID int64, sessionID string) (State, error) {
	messages, err := m.history(userID, sessionID).Messages(ctx)
	if err != nil {
		return State{}, err
	}

	var window []Turn
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].GetType() != llms.ChatMessageTypeHuman || messages[i+1].GetType() != llms.ChatMessageTypeAI {
			continue
		}
		window = append(window, Turn{Human: messages[i].GetContent(), AI: messages[i+1].GetContent()})
		i++
	}
	if len(window) > m.windowSize {
		window = window[len(window)-m.windowSize:]
	}
	return State{Window: window}, nil
}
