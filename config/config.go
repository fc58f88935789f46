package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Cfg 全局配置实例
var Cfg Config

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Model    ModelConfig    `yaml:"model"`
	Storage  StorageConfig  `yaml:"storage"`
	Learning LearningConfig `yaml:"learning"`
	Behavior BehaviorConfig `yaml:"behavior"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AuthConfig struct {
	SecretKey string `yaml:"secret_key"`

	// 唯一授权用户，来自消息前端的用户标识
	AuthorizedUserID int64 `yaml:"authorized_user_id"`
}

type ModelConfig struct {
	APIKey    string `yaml:"api_key"`
	Name      string `yaml:"name"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`

	// 会话超时时间（小时），0 表示永不过期
	SessionTimeoutHours int `yaml:"session_timeout_hours"`
}

type LearningConfig struct {
	Enabled   bool `yaml:"enabled"`
	Threshold int  `yaml:"threshold"`
}

type BehaviorConfig struct {
	RequireExplicitConfirmation bool `yaml:"require_explicit_confirmation"`
}

type MCPConfig struct {
	Gmail    MCPServerConfig `yaml:"gmail"`
	Calendar MCPServerConfig `yaml:"calendar"`
}

type MCPServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
}

// Load 读取配置文件并填充全局 Cfg，缺省值先行，敏感项支持环境变量覆盖
func Load(path string) error {
	Cfg = Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Model: ModelConfig{
			MaxTokens: 4096,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join("data", "fede.db"),
		},
		Learning: LearningConfig{
			Enabled:   true,
			Threshold: 3,
		},
		Behavior: BehaviorConfig{
			RequireExplicitConfirmation: true,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	if err := yaml.Unmarshal(data, &Cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	if key := os.Getenv("MODEL_API_KEY"); key != "" {
		Cfg.Model.APIKey = key
	}
	if secret := os.Getenv("AUTH_SECRET_KEY"); secret != "" {
		Cfg.Auth.SecretKey = secret
	}

	if Cfg.Learning.Threshold <= 0 {
		Cfg.Learning.Threshold = 3
	}

	if dir := filepath.Dir(Cfg.Storage.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	return nil
}
