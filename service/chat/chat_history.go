package chat

import (
	"context"

	"fede-agent-backend/dao"
	"fede-agent-backend/model"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	// 每轮提交给模型的历史窗口。更早的消息静默滑出窗口，
	// 不做摘要回退。
	historyLimit = 20
)

// SessionChatHistory 以会话存储为后端的对话历史，
// 由 langchaingo 的记忆组件在每轮对话中读写
type SessionChatHistory struct {
	SessionID uint
	Limit     int
}

var _ schema.ChatMessageHistory = &SessionChatHistory{}

func NewSessionChatHistory(sessionID uint) *SessionChatHistory {
	return &SessionChatHistory{
		SessionID: sessionID,
		Limit:     historyLimit,
	}
}

// Messages 按创建顺序加载窗口内的历史消息
func (h *SessionChatHistory) Messages(_ context.Context) ([]llms.ChatMessage, error) {
	messages, err := dao.GetMessages(h.SessionID, h.Limit)
	if err != nil {
		return nil, err
	}

	var msgs []llms.ChatMessage
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleAssistant:
			msgs = append(msgs, llms.AIChatMessage{Content: msg.Content})
		case model.RoleUser:
			msgs = append(msgs, llms.HumanChatMessage{Content: msg.Content})
		}
	}

	return msgs, nil
}

func (h *SessionChatHistory) AddMessage(ctx context.Context, message llms.ChatMessage) error {
	switch message.GetType() {
	case llms.ChatMessageTypeAI:
		return h.AddAIMessage(ctx, message.GetContent())
	default:
		return h.AddUserMessage(ctx, message.GetContent())
	}
}

func (h *SessionChatHistory) AddAIMessage(_ context.Context, text string) error {
	return dao.AddMessage(h.SessionID, model.RoleAssistant, text)
}

func (h *SessionChatHistory) AddUserMessage(_ context.Context, text string) error {
	return dao.AddMessage(h.SessionID, model.RoleUser, text)
}

// Clear 清空会话内消息。结束会话不会走这条路径，
// 正常结束始终保留完整记录。
func (h *SessionChatHistory) Clear(_ context.Context) error {
	return dao.DeleteMessages(h.SessionID)
}

func (h *SessionChatHistory) SetMessages(ctx context.Context, messages []llms.ChatMessage) error {
	if err := h.Clear(ctx); err != nil {
		return err
	}
	for _, msg := range messages {
		if err := h.AddMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
