package dao

import (
	"path/filepath"
	"testing"
	"time"

	"fede-agent-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(path))
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Init(path))
	require.NoError(t, Init(path))
}

func TestCreateAndGetActiveSession(t *testing.T) {
	initTestDB(t)

	created, err := CreateSession(42)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "{}", created.Context)

	found, err := GetActiveSession(42)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := GetActiveSession(99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetActiveSessionPrefersMostRecentlyUpdated(t *testing.T) {
	initTestDB(t)

	first, err := CreateSession(1)
	require.NoError(t, err)
	second, err := CreateSession(1)
	require.NoError(t, err)

	require.NoError(t, DB.Model(&model.Session{}).
		Where("id = ?", first.ID).
		Update("updated_at", time.Now().Add(-time.Minute)).Error)

	found, err := GetActiveSession(1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, second.ID, found.ID)
}

func TestDeactivateExpiredSessions(t *testing.T) {
	initTestDB(t)

	session, err := CreateSession(7)
	require.NoError(t, err)

	// 回拨 updated_at 模拟 2 小时无交互
	require.NoError(t, DB.Model(&model.Session{}).
		Where("id = ?", session.ID).
		Update("updated_at", time.Now().Add(-2*time.Hour)).Error)

	cutoff := time.Now().Add(-time.Hour)
	require.NoError(t, DeactivateExpiredSessions(7, cutoff))

	found, err := GetActiveSession(7)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAddMessageRefreshesSessionUpdatedAt(t *testing.T) {
	initTestDB(t)

	session, err := CreateSession(3)
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, DB.Model(&model.Session{}).
		Where("id = ?", session.ID).
		Update("updated_at", old).Error)

	require.NoError(t, AddMessage(session.ID, model.RoleUser, "hello"))

	var refreshed model.Session
	require.NoError(t, DB.First(&refreshed, session.ID).Error)
	assert.True(t, refreshed.UpdatedAt.After(old))
}

func TestGetMessagesReturnsRecentInChronologicalOrder(t *testing.T) {
	initTestDB(t)

	session, err := CreateSession(5)
	require.NoError(t, err)

	contents := []string{"one", "two", "three", "four", "five"}
	for _, content := range contents {
		require.NoError(t, AddMessage(session.ID, model.RoleUser, content))
	}

	messages, err := GetMessages(session.ID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	// 截断保留最近 3 条，升序返回
	assert.Equal(t, "three", messages[0].Content)
	assert.Equal(t, "four", messages[1].Content)
	assert.Equal(t, "five", messages[2].Content)

	all, err := GetMessages(session.ID, 20)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, content := range contents {
		assert.Equal(t, content, all[i].Content)
	}
}

func TestUpdateContextReplacesNotMerges(t *testing.T) {
	initTestDB(t)

	session, err := CreateSession(9)
	require.NoError(t, err)

	require.NoError(t, UpdateContext(session.ID, map[string]any{"a": 1}))
	require.NoError(t, UpdateContext(session.ID, map[string]any{"b": 2}))

	var stored model.Session
	require.NoError(t, DB.First(&stored, session.ID).Error)

	context, err := ParseContext(stored.Context)
	require.NoError(t, err)
	assert.NotContains(t, context, "a")
	assert.Contains(t, context, "b")
}

func TestEndSessionKeepsMessages(t *testing.T) {
	initTestDB(t)

	session, err := CreateSession(11)
	require.NoError(t, err)
	require.NoError(t, AddMessage(session.ID, model.RoleUser, "keep me"))

	require.NoError(t, EndSession(session.ID))

	found, err := GetActiveSession(11)
	require.NoError(t, err)
	assert.Nil(t, found)

	messages, err := GetMessages(session.ID, 20)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestParseContextEmpty(t *testing.T) {
	context, err := ParseContext("")
	require.NoError(t, err)
	assert.Empty(t, context)
}
