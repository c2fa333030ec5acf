package session

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"context"
	"slices"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"gorm.io/gorm"
)

const logLimit = 200

// MessageLog is the durable chat_message log of one session. It backs the session
// history endpoint and warms the conversation window after a restart.
type MessageLog struct {
	DB      *gorm.DB
	Session string
	UserID  int64
	Limit   int
}

var _ schema.ChatMessageHistory = &MessageLog{}

func NewMessageLog(userID int64, session string) *MessageLog {
	return &MessageLog{
		DB:      dao.DB,
		Session: session,
		UserID:  userID,
		Limit:   logLimit,
	}
}

// Messages returns the most recent Limit messages, oldest first.
func (h *MessageLog) Messages(ctx context.Context) ([]llms.ChatMessage, error) {
	var rows []model.Message
	if err := h.DB.WithContext(ctx).
		Select("role", "content").
		Where("session_id = ? AND user_id = ?", h.Session, h.UserID).
		Order("created_at DESC, id DESC").
		Limit(h.Limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	var msgs []llms.ChatMessage
	for _, row := range rows {
		switch row.Role {
		case string(llms.ChatMessageTypeAI):
			msgs = append(msgs, llms.AIChatMessage{Content: row.Content})
		case string(llms.ChatMessageTypeHuman):
			msgs = append(msgs, llms.HumanChatMessage{Content: row.Content})
		case string(llms.ChatMessageTypeSystem):
			msgs = append(msgs, llms.SystemChatMessage{Content: row.Content})
		}
	}
	return msgs, nil
}

func (h *MessageLog) AddMessage(ctx context.Context, message llms.ChatMessage) error {
	return h.addMessage(ctx, message.GetContent(), message.GetType())
}

func (h *MessageLog) AddAIMessage(ctx context.Context, text string) error {
	return h.addMessage(ctx, text, llms.ChatMessageTypeAI)
}

func (h *MessageLog) AddUserMessage(ctx context.Context, text string) error {
	return h.addMessage(ctx, text, llms.ChatMessageTypeHuman)
}

func (h *MessageLog) addMessage(ctx context.Context, text string, role llms.ChatMessageType) error {
	return h.DB.WithContext(ctx).Create(&model.Message{
		SessionID: h.Session,
		UserID:    h.UserID,
		Role:      string(role),
		Content:   text,
	}).Error
}

// AddTurn logs both sides of a turn in one transaction. Session and user are stamped
// from the log.
func (h *MessageLog) AddTurn(ctx context.Context, human, ai *model.Message) error {
	human.SessionID, human.UserID, human.Role = h.Session, h.UserID, string(llms.ChatMessageTypeHuman)
	ai.SessionID, ai.UserID, ai.Role = h.Session, h.UserID, string(llms.ChatMessageTypeAI)
	return h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(human).Error; err != nil {
			return err
		}
		return tx.Create(ai).Error
	})
}

func (h *MessageLog) Clear(ctx context.Context) error {
	return h.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", h.Session, h.UserID).
		Delete(&model.Message{}).Error
}

func (h *MessageLog) SetMessages(ctx context.Context, messages []llms.ChatMessage) error {
	return h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ? AND user_id = ?", h.Session, h.UserID).
			Delete(&model.Message{}).Error; err != nil {
			return err
		}

		rows := make([]model.Message, 0, len(messages))
		for _, msg := range messages {
			rows = append(rows, model.Message{
				SessionID: h.Session,
				UserID:    h.UserID,
				Role:      string(msg.GetType()),
				Content:   msg.GetContent(),
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}
