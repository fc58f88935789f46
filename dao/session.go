package dao

import (
	"encoding/json"
	"errors"
	"time"

	"fede-agent-backend/model"

	"gorm.io/gorm"
)

// DeactivateExpiredSessions 将该用户 updated_at 早于 cutoff 的活动会话置为不活动。
// 过期检查只在新交互到达时惰性触发，没有后台清扫。
func DeactivateExpiredSessions(userID int64, cutoff time.Time) error {
	err := DB.Model(&model.Session{}).
		Where("user_id = ? AND is_active = ? AND updated_at < ?", userID, true, cutoff).
		Update("is_active", false).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// GetActiveSession 返回该用户最近更新的活动会话，不存在时返回 nil
func GetActiveSession(userID int64) (*model.Session, error) {
	var session model.Session
	err := DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return &session, nil
}

// CreateSession 为用户创建空上下文的新会话
func CreateSession(userID int64) (*model.Session, error) {
	session := model.Session{
		UserID:   userID,
		IsActive: true,
		Context:  "{}",
	}
	if err := DB.Create(&session).Error; err != nil {
		return nil, storageErr(err)
	}
	return &session, nil
}

// AddMessage 追加一条消息并刷新会话的 updated_at，单事务完成
func AddMessage(sessionID uint, role, content string) error {
	err := DB.Transaction(func(tx *gorm.DB) error {
		msg := model.Message{
			SessionID: sessionID,
			Role:      role,
			Content:   content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Session{}).
			Where("id = ?", sessionID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// GetMessages 返回会话最近 limit 条消息，按时间升序。
// 超出窗口的早期消息会静默退出模型上下文，不做摘要回退。
func GetMessages(sessionID uint, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := DB.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, storageErr(err)
	}

	// 倒序查询结果翻转为时间升序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// UpdateContext 整体替换会话上下文（非合并）并刷新 updated_at
func UpdateContext(sessionID uint, context map[string]any) error {
	contextJSON, err := json.Marshal(context)
	if err != nil {
		return err
	}

	err = DB.Model(&model.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"context":    string(contextJSON),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// EndSession 结束会话。消息记录保留，不级联删除。
func EndSession(sessionID uint) error {
	err := DB.Model(&model.Session{}).
		Where("id = ?", sessionID).
		Update("is_active", false).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// DeleteMessages 删除会话内全部消息
func DeleteMessages(sessionID uint) error {
	err := DB.Where("session_id = ?", sessionID).
		Delete(&model.Message{}).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// ParseContext 解析会话上下文 JSON，空串视为空上下文
func ParseContext(raw string) (map[string]any, error) {
	context := make(map[string]any)
	if raw == "" {
		return context, nil
	}
	if err := json.Unmarshal([]byte(raw), &context); err != nil {
		return nil, err
	}
	return context, nil
}
