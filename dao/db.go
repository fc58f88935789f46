package dao

import (
	"errors"
	"fmt"
	"log/slog"

	"fede-agent-backend/model"

	"github.com/avast/retry-go/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const openAttempts = 3

// DB 全局数据库实例
var DB *gorm.DB

// ErrStorageUnavailable 持久层不可用，调用方通过 errors.Is 识别，不做自动重试
var ErrStorageUnavailable = errors.New("session storage unavailable")

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// Init 打开数据库并迁移三张表，可在每次进程启动时重复调用
func Init(path string) error {
	err := retry.Do(
		func() error {
			var openErr error
			DB, openErr = gorm.Open(sqlite.Open(path), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			return openErr
		},
		retry.Attempts(openAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying to open database",
				"attempt", n+1,
				"path", path,
				"err", err)
		}),
	)
	if err != nil {
		return storageErr(err)
	}

	if err := DB.AutoMigrate(
		&model.Session{},
		&model.Message{},
		&model.UserPattern{},
	); err != nil {
		return storageErr(err)
	}

	return nil
}
