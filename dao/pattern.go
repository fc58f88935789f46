package dao

import (
	"errors"
	"time"

	"fede-agent-backend/model"

	"gorm.io/gorm"
)

// TrackPattern 对 (user_id, pattern_key, pattern_value) 三元组计数加一，
// 首次出现时插入，返回更新后的出现次数
func TrackPattern(userID int64, patternKey, patternValue string) (int, error) {
	var count int

	err := DB.Transaction(func(tx *gorm.DB) error {
		var pattern model.UserPattern
		err := tx.Where("user_id = ? AND pattern_key = ? AND pattern_value = ?",
			userID, patternKey, patternValue).
			First(&pattern).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			pattern = model.UserPattern{
				UserID:          userID,
				PatternKey:      patternKey,
				PatternValue:    patternValue,
				OccurrenceCount: 1,
				LastSeen:        time.Now(),
			}
			count = 1
			return tx.Create(&pattern).Error
		}
		if err != nil {
			return err
		}

		count = pattern.OccurrenceCount + 1
		return tx.Model(&pattern).Updates(map[string]any{
			"occurrence_count": count,
			"last_seen":        time.Now(),
		}).Error
	})
	if err != nil {
		return 0, storageErr(err)
	}

	return count, nil
}

// GetPatternSuggestions 返回出现次数达到阈值的三元组，按次数降序
func GetPatternSuggestions(userID int64, patternKey string, threshold int) ([]model.UserPattern, error) {
	var patterns []model.UserPattern
	err := DB.Where("user_id = ? AND pattern_key = ? AND occurrence_count >= ?",
		userID, patternKey, threshold).
		Order("occurrence_count DESC").
		Find(&patterns).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return patterns, nil
}

// ConfirmPatternDefault 将模式标记为已确认默认值。单向转换，不提供撤销。
func ConfirmPatternDefault(userID int64, patternKey, patternValue string) error {
	err := DB.Model(&model.UserPattern{}).
		Where("user_id = ? AND pattern_key = ? AND pattern_value = ?",
			userID, patternKey, patternValue).
		Update("is_confirmed_default", true).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}
