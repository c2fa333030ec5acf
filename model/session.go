package model

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultSessionTitle = "New conversation"

type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	SessionID string    `gorm:"not null;uniqueIndex;size:64" json:"session_id"`
	Title     string    `json:"title"`
}

func (Session) TableName() string {
	return "chat_session"
}

// Message has a composite index on (session_id, created_at)
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_session_created" json:"created_at"`
	SessionID string    `gorm:"not null;size:64;index:idx_session_created" json:"session_id"`
	UserID    int64     `gorm:"not null" json:"user_id"`
	Role      string    `gorm:"not null;size:16" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`

	// classified intent and extracted slots of the human turn that produced this row
	Intent  string         `gorm:"size:64" json:"intent,omitempty"`
	Payload datatypes.JSON `json:"payload,omitempty"`

	// failure kind when the turn was downgraded to a fail-soft reply
	ErrorKind string `gorm:"size:32" json:"error_kind,omitempty"`
}

func (Message) TableName() string {
	return "chat_message"
}
