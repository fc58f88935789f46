package actions

import (
	"testing"

	"fede-agent-backend/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate() model.ActionItem {
	return model.ActionItem{
		ID:                   uuid.New().String(),
		Type:                 model.ActionTodo,
		Params:               model.TodoParams{Excerpt: "buy milk"},
		RequiresConfirmation: true,
		Confidence:           0.5,
	}
}

func TestConfirmIssuesTokenOnce(t *testing.T) {
	r := NewRegistry()
	item := newCandidate()
	r.Park(1, []model.ActionItem{item})

	confirmation, err := r.Confirm(1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, confirmation.ActionID)
	assert.Equal(t, int64(1), confirmation.UserID)
	assert.Equal(t, item.Type, confirmation.Action.Type)

	// 凭据只能签发一次
	_, err = r.Confirm(1, item.ID)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestConfirmRejectsWrongUser(t *testing.T) {
	r := NewRegistry()
	item := newCandidate()
	r.Park(1, []model.ActionItem{item})

	_, err := r.Confirm(2, item.ID)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestConfirmUnknownAction(t *testing.T) {
	r := NewRegistry()

	_, err := r.Confirm(1, uuid.New().String())
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestDiscardRemovesCandidate(t *testing.T) {
	r := NewRegistry()
	item := newCandidate()
	r.Park(1, []model.ActionItem{item})

	r.Discard(1, item.ID)

	_, err := r.Confirm(1, item.ID)
	assert.ErrorIs(t, err, ErrActionNotFound)
}
