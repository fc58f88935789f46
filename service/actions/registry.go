package actions

import (
	"errors"
	"sync"
	"time"

	"fede-agent-backend/model"
)

// 候选等待确认的保留时长
const pendingTTL = 30 * time.Minute

var (
	ErrActionNotFound     = errors.New("action candidate not found or expired")
	ErrConfirmationNeeded = errors.New("action requires explicit confirmation")
)

// Confirmation 确认凭据。只有 Registry.Confirm 能签发，
// 任何执行或学习入口都以它为前置条件，从结构上杜绝未确认路径。
type Confirmation struct {
	ActionID string
	UserID   int64
	Action   model.ActionItem

	issuedAt time.Time
}

type pendingAction struct {
	userID   int64
	action   model.ActionItem
	parkedAt time.Time
}

// Registry 暂存已提取、尚未答复的动作候选
type Registry struct {
	mu      sync.Mutex
	pending map[string]pendingAction
}

func NewRegistry() *Registry {
	return &Registry{
		pending: make(map[string]pendingAction),
	}
}

// Park 登记候选，等待用户答复
func (r *Registry) Park(userID int64, items []model.ActionItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, p := range r.pending {
		if now.Sub(p.parkedAt) > pendingTTL {
			delete(r.pending, id)
		}
	}

	for _, item := range items {
		r.pending[item.ID] = pendingAction{
			userID:   userID,
			action:   item,
			parkedAt: now,
		}
	}
}

// Confirm 用户明确同意后签发确认凭据并移除候选。
// 未登记或已过期的候选返回 ErrActionNotFound。
func (r *Registry) Confirm(userID int64, actionID string) (*Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[actionID]
	if !ok || p.userID != userID || time.Since(p.parkedAt) > pendingTTL {
		return nil, ErrActionNotFound
	}

	delete(r.pending, actionID)
	return &Confirmation{
		ActionID: actionID,
		UserID:   userID,
		Action:   p.action,
		issuedAt: time.Now(),
	}, nil
}

// Discard 用户拒绝，直接丢弃候选
func (r *Registry) Discard(userID int64, actionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pending[actionID]; ok && p.userID == userID {
		delete(r.pending, actionID)
	}
}
