package session

import (
	"bealive-agent-backend/config"
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists conversation state by key.
type Store interface {
	// Load returns the stored state and whether one existed.
	Load(ctx context.Context, key string) (State, bool, error)
	Save(ctx context.Context, key string, state State) error
	Delete(ctx context.Context, key string) error
}

// NewStore builds the store selected by cfg.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return NewMemoryStore(), nil
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.Redis.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[key]
	if !ok {
		return State{}, false, nil
	}
	state.Window = append([]Turn(nil), state.Window...)
	return state, true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Window = append([]Turn(nil), state.Window...)
	s.states[key] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}
