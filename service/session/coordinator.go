// Package session 维护每个用户的"当前会话"快照，
// 是消息处理层与持久层之间的唯一中介。
package session

import (
	"log/slog"
	"sync"
	"time"

	"fede-agent-backend/dao"
)

// Snapshot 当前会话的内存快照，与存储中最近一次写入保持一致
type Snapshot struct {
	SessionID uint
	UserID    int64
	Context   map[string]any
}

// Coordinator 按用户键控的会话快照缓存。
// 快照只在 GetOrCreate、UpdateContext、End 三个写路径上更新，
// 其余读取一律走缓存，不回查存储。
type Coordinator struct {
	mu      sync.Mutex
	timeout time.Duration
	current map[int64]*Snapshot
}

// NewCoordinator timeoutHours 为 0 时会话永不过期
func NewCoordinator(timeoutHours int) *Coordinator {
	return &Coordinator{
		timeout: time.Duration(timeoutHours) * time.Hour,
		current: make(map[int64]*Snapshot),
	}
}

// GetOrCreate 返回该用户的活动会话，必要时先惰性清理过期会话。
// 这是"每用户至多一个活动会话"不变量的唯一闸口。
func (c *Coordinator) GetOrCreate(userID int64) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		cutoff := time.Now().Add(-c.timeout)
		if err := dao.DeactivateExpiredSessions(userID, cutoff); err != nil {
			return nil, err
		}
	}

	existing, err := dao.GetActiveSession(userID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		context, err := dao.ParseContext(existing.Context)
		if err != nil {
			return nil, err
		}
		snapshot := &Snapshot{SessionID: existing.ID, UserID: userID, Context: context}
		c.current[userID] = snapshot
		slog.Info("Found active session", "session_id", existing.ID, "user_id", userID)
		return snapshot, nil
	}

	created, err := dao.CreateSession(userID)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{SessionID: created.ID, UserID: userID, Context: make(map[string]any)}
	c.current[userID] = snapshot
	slog.Info("Created new session", "session_id", created.ID, "user_id", userID)
	return snapshot, nil
}

// Current 返回缓存中的当前会话快照，没有则返回 nil
func (c *Coordinator) Current(userID int64) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[userID]
}

// UpdateContext 整体替换会话上下文并同步缓存
func (c *Coordinator) UpdateContext(userID int64, sessionID uint, context map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := dao.UpdateContext(sessionID, context); err != nil {
		return err
	}

	if snapshot, ok := c.current[userID]; ok && snapshot.SessionID == sessionID {
		snapshot.Context = context
	}
	return nil
}

// End 结束会话并清除对应缓存槽位
func (c *Coordinator) End(userID int64, sessionID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := dao.EndSession(sessionID); err != nil {
		return err
	}

	if snapshot, ok := c.current[userID]; ok && snapshot.SessionID == sessionID {
		delete(c.current, userID)
	}
	return nil
}
