package response

import (
	"encoding/json"
	"time"
)

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

type GetSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

type MessageResponse struct {
	CreatedAt time.Time       `json:"created_at"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Intent    string          `json:"intent,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
}

type GetSessionMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}
