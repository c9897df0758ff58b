package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SessionDetailResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
	Messages  []ChatMessageDTO `json:"messages"`
}

type SendChatRequest struct {
	Chat string `json:"chat" validate:"required"`
	// ChatSessionId is nil on the first send of a fresh conversation; the
	// server then mints the durable session.
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
	// SessionHint carries the client's provisional identifier. It is logged
	// for correlation and never trusted as an identity.
	SessionHint string `json:"session_hint,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID       `json:"chat_session_id"`
	ChatSessionTitle string          `json:"title"`
	Sent             *ChatMessageDTO `json:"sent"`
	Reply            *ChatMessageDTO `json:"reply"`
}
