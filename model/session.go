package model

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`

	// 会话上下文，JSON 对象字符串（用户名、时区、偏好等任意键值）
	Context string `gorm:"type:text" json:"context"`
}

func (Session) TableName() string {
	return "chat_session"
}

// Message 建立联合索引 (session_id, created_at)
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_session_created" json:"created_at"`
	SessionID uint      `gorm:"not null;index:idx_session_created" json:"session_id"`
	Role      string    `gorm:"not null" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
}

func (Message) TableName() string {
	return "chat_message"
}

// UserPattern 记录用户重复行为，(user_id, pattern_key, pattern_value) 唯一
type UserPattern struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	UserID             int64     `gorm:"not null;uniqueIndex:idx_user_pattern" json:"user_id"`
	PatternKey         string    `gorm:"not null;uniqueIndex:idx_user_pattern" json:"pattern_key"`
	PatternValue       string    `gorm:"not null;uniqueIndex:idx_user_pattern" json:"pattern_value"`
	OccurrenceCount    int       `gorm:"not null;default:1" json:"occurrence_count"`
	LastSeen           time.Time `json:"last_seen"`
	IsConfirmedDefault bool      `gorm:"not null;default:false" json:"is_confirmed_default"`
}

func (UserPattern) TableName() string {
	return "user_pattern"
}
