package learning

import (
	"path/filepath"
	"testing"

	"fede-agent-backend/dao"
	"fede-agent-backend/model"
	"fede-agent-backend/service/actions"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, dao.Init(filepath.Join(t.TempDir(), "test.db")))
}

// confirm 走正规确认路径取得凭据
func confirm(t *testing.T, userID int64, item model.ActionItem) *actions.Confirmation {
	t.Helper()
	registry := actions.NewRegistry()
	registry.Park(userID, []model.ActionItem{item})
	confirmation, err := registry.Confirm(userID, item.ID)
	require.NoError(t, err)
	return confirmation
}

func emailAction(addr string) model.ActionItem {
	return model.ActionItem{
		ID:                   uuid.New().String(),
		Type:                 model.ActionEmail,
		Params:               model.EmailParams{ExtractedEmails: []string{addr}},
		RequiresConfirmation: true,
		Confidence:           0.6,
	}
}

func TestRecordConfirmedTracksEmailRecipient(t *testing.T) {
	initTestDB(t)

	l := NewLearner(3, true)
	l.Run()

	for i := 0; i < 3; i++ {
		l.RecordConfirmed(confirm(t, 1, emailAction("boss@example.com")))
	}
	l.Shutdown()

	suggestions, err := l.Suggestions(1, "email_recipient")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "boss@example.com", suggestions[0].PatternValue)
	assert.Equal(t, 3, suggestions[0].OccurrenceCount)
	assert.False(t, suggestions[0].IsConfirmedDefault)
}

func TestSuggestionsBelowThresholdHidden(t *testing.T) {
	initTestDB(t)

	l := NewLearner(3, true)
	l.Run()
	l.RecordConfirmed(confirm(t, 2, emailAction("rare@example.com")))
	l.Shutdown()

	suggestions, err := l.Suggestions(2, "email_recipient")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRecordConfirmedTracksCalendarFields(t *testing.T) {
	initTestDB(t)

	l := NewLearner(1, true)
	l.Run()

	item := model.ActionItem{
		ID:   uuid.New().String(),
		Type: model.ActionCalendarEvent,
		Params: model.CalendarParams{
			ExtractedTimes:    []string{"3pm"},
			SuggestedAttendee: "Maria",
		},
		RequiresConfirmation: true,
	}
	l.RecordConfirmed(confirm(t, 3, item))
	l.Shutdown()

	attendees, err := l.Suggestions(3, "meeting_attendee")
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, "Maria", attendees[0].PatternValue)

	times, err := l.Suggestions(3, "meeting_time")
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.Equal(t, "3pm", times[0].PatternValue)
}

func TestDisabledLearnerRecordsNothing(t *testing.T) {
	initTestDB(t)

	l := NewLearner(1, false)
	l.Run()
	l.RecordConfirmed(confirm(t, 4, emailAction("quiet@example.com")))
	l.Shutdown()

	suggestions, err := l.Suggestions(4, "email_recipient")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestTodoActionHasNoSalientFields(t *testing.T) {
	initTestDB(t)

	l := NewLearner(1, true)
	l.Run()

	item := model.ActionItem{
		ID:     uuid.New().String(),
		Type:   model.ActionTodo,
		Params: model.TodoParams{Excerpt: "water plants"},
	}
	l.RecordConfirmed(confirm(t, 5, item))
	l.Shutdown()

	suggestions, err := l.Suggestions(5, "email_recipient")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestConfirmDefault(t *testing.T) {
	initTestDB(t)

	l := NewLearner(2, true)
	l.Run()
	for i := 0; i < 2; i++ {
		l.RecordConfirmed(confirm(t, 6, emailAction("boss@example.com")))
	}
	l.Shutdown()

	require.NoError(t, l.ConfirmDefault(6, "email_recipient", "boss@example.com"))

	suggestions, err := l.Suggestions(6, "email_recipient")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.True(t, suggestions[0].IsConfirmedDefault)
}
