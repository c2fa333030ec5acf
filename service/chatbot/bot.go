// Package chatbot runs one conversational turn: classify the utterance, extract its slots,
// dispatch to the intent's handler and record the exchange in the session's memory.
package chatbot

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/formatter"
	"bealive-agent-backend/service/intent"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/sentiment"
	"bealive-agent-backend/service/session"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/service/vector"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Request is one user turn.
type Request struct {
	UserID    int64
	SessionID string
	Utterance string

	// History is the conversation context, filled in by the bot.
	History string

	// Observer, when set, is told about the turn's progress.
	Observer Observer
}

// Observer receives the classified intent before the handler runs.
type Observer interface {
	OnIntent(in intent.Intent, payload slots.Payload)
}

// Reply is the outcome of a turn. Text is always set.
type Reply struct {
	Intent  intent.Intent
	Payload slots.Payload
	Text    string

	// Err is the failure that was downgraded into Text, if any.
	Err *TurnError
}

type Deps struct {
	Model      llms.Model
	Sessions   *session.Manager
	Activities vector.Index
	Company    vector.Index
	Sentiment  sentiment.Scorer
	Search     SearchOptions

	// LogTurns records every turn in the chat_message log.
	LogTurns bool

	Now func() time.Time
}

type Bot struct {
	classifier *intent.Classifier
	stage      *slots.Stage
	handlers   *Handlers
	sessions   *session.Manager
	logTurns   bool
}

func New(d Deps) *Bot {
	e := extract.New(d.Model)
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Bot{
		classifier: intent.NewClassifier(e),
		stage:      slots.NewStage(e),
		handlers: &Handlers{
			extractor:  e,
			resolver:   resolve.New(e),
			formatter:  formatter.New(d.Model),
			activities: d.Activities,
			company:    d.Company,
			sentiment:  d.Sentiment,
			search:     d.Search,
			now:        now,
		},
		sessions: d.Sessions,
		logTurns: d.LogTurns,
	}
}

// Respond processes one turn. Turns of the same session are serialized. Every failure is
// logged here and downgraded to a reply, so the user always receives an answer.
func (b *Bot) Respond(ctx context.Context, req Request) Reply {
	lease, err := b.sessions.Acquire(ctx, req.UserID, req.SessionID)
	if err != nil {
		reply := Reply{Intent: intent.Chitchat}
		b.downgrade(&req, &reply, fail(KindStore, MsgError, err))
		return reply
	}
	defer lease.Release()

	req.History, err = lease.Context(ctx)
	if err != nil {
		slog.Warn("failed to render conversation context", "session_id", req.SessionID, "err", err)
	}

	reply := b.run(ctx, &req)

	if err := lease.Commit(ctx, session.Turn{Human: req.Utterance, AI: reply.Text}); err != nil {
		slog.Warn("failed to update conversation memory",
			"user_id", req.UserID,
			"session_id", req.SessionID,
			"err", err,
		)
	}
	if b.logTurns {
		b.logTurn(ctx, &req, &reply)
	}
	return reply
}

func (b *Bot) run(ctx context.Context, req *Request) Reply {
	in, err := b.classifier.Classify(ctx, req.Utterance, req.History)
	reply := Reply{Intent: in}
	if err != nil {
		b.downgrade(req, &reply, extractionFailed(err))
		return reply
	}

	payload, err := b.stage.Extract(ctx, in, req.Utterance, req.History)
	if err != nil {
		b.downgrade(req, &reply, extractionFailed(err))
		return reply
	}
	reply.Payload = payload
	if req.Observer != nil {
		req.Observer.OnIntent(in, payload)
	}

	text, err := b.handlers.Dispatch(ctx, req, payload)
	if err != nil {
		var te *TurnError
		if !errors.As(err, &te) {
			te = fail(KindStore, MsgError, err)
		}
		b.downgrade(req, &reply, te)
		return reply
	}
	reply.Text = text
	return reply
}

func (b *Bot) downgrade(req *Request, reply *Reply, te *TurnError) {
	slog.Error("turn failed",
		"kind", te.Kind,
		"intent", reply.Intent,
		"user_id", req.UserID,
		"session_id", req.SessionID,
		"err", te.Err,
	)
	reply.Text = te.Reply
	reply.Err = te
}

func (b *Bot) logTurn(ctx context.Context, req *Request, reply *Reply) {
	human := &model.Message{
		Content: req.Utterance,
		Intent:  reply.Intent.String(),
	}
	if reply.Payload != nil {
		if data, err := json.Marshal(reply.Payload); err == nil {
			human.Payload = data
		}
	}
	ai := &model.Message{Content: reply.Text}
	if reply.Err != nil {
		ai.ErrorKind = string(reply.Err.Kind)
	}

	if err := session.NewMessageLog(req.UserID, req.SessionID).AddTurn(ctx, human, ai); err != nil {
		slog.Warn("failed to log chat messages", "session_id", req.SessionID, "err", err)
	}
}

// Clear resets the conversation memory of a session.
func (b *Bot) Clear(ctx context.Context, userID int64, sessionID string) error {
	return b.sessions.Clear(ctx, userID, sessionID)
}

// Forget drops the conversation memory of a deleted session.
func (b *Bot) Forget(ctx context.Context, userID int64, sessionID string) error {
	return b.sessions.Forget(ctx, userID, sessionID)
}
