package response

import (
	"time"
)

type SessionResponse struct {
	SessionID uint `json:"session_id"`
}

type SessionStatusResponse struct {
	SessionID    uint   `json:"session_id"`
	MessageCount int    `json:"message_count"`
	Model        string `json:"model"`
}

type MessageResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

type GetSessionMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}
