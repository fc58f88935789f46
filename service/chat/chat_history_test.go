package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"fede-agent-backend/dao"
	"fede-agent-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, dao.Init(filepath.Join(t.TempDir(), "test.db")))
}

func newTestHistory(t *testing.T) *SessionChatHistory {
	t.Helper()
	session, err := dao.CreateSession(1)
	require.NoError(t, err)
	return NewSessionChatHistory(session.ID)
}

func TestMessagesRoleMapping(t *testing.T) {
	initTestDB(t)
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddUserMessage(ctx, "hello"))
	require.NoError(t, h.AddAIMessage(ctx, "hi there"))

	msgs, err := h.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[0].GetType())
	assert.Equal(t, "hello", msgs[0].GetContent())
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[1].GetType())
	assert.Equal(t, "hi there", msgs[1].GetContent())
}

func TestMessagesWindowKeepsNewest(t *testing.T) {
	initTestDB(t)
	h := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+5; i++ {
		require.NoError(t, h.AddUserMessage(ctx, fmt.Sprintf("msg %d", i)))
	}

	msgs, err := h.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, historyLimit)

	// 最早的 5 条滑出窗口，剩余保持时间顺序
	assert.Equal(t, "msg 5", msgs[0].GetContent())
	assert.Equal(t, fmt.Sprintf("msg %d", historyLimit+4), msgs[len(msgs)-1].GetContent())
}

func TestAddMessageDispatchesByType(t *testing.T) {
	initTestDB(t)
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddMessage(ctx, llms.AIChatMessage{Content: "answer"}))
	require.NoError(t, h.AddMessage(ctx, llms.HumanChatMessage{Content: "question"}))

	stored, err := dao.GetMessages(h.SessionID, historyLimit)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, model.RoleAssistant, stored[0].Role)
	assert.Equal(t, model.RoleUser, stored[1].Role)
}

func TestSetMessagesReplacesHistory(t *testing.T) {
	initTestDB(t)
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddUserMessage(ctx, "old"))
	require.NoError(t, h.SetMessages(ctx, []llms.ChatMessage{
		llms.HumanChatMessage{Content: "fresh"},
	}))

	msgs, err := h.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "fresh", msgs[0].GetContent())
}

func TestClearRemovesAllMessages(t *testing.T) {
	initTestDB(t)
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddUserMessage(ctx, "gone soon"))
	require.NoError(t, h.Clear(ctx))

	msgs, err := h.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
