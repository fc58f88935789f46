package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log/slog"

	"fede-agent-backend/config"
	"fede-agent-backend/middleware"
)

func generateJWTSecret() (string, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

func main() {
	configPath := flag.String("config", "", "config file; when set, mints a token for the authorized user")
	flag.Parse()

	if *configPath == "" {
		secret, err := generateJWTSecret()
		if err != nil {
			slog.Error("Error generating secret", "err", err)
			return
		}
		slog.Info("Generated JWT Secret:", "secret", secret)
		return
	}

	if err := config.Load(*configPath); err != nil {
		slog.Error("Failed to load config", "err", err)
		return
	}

	token, err := middleware.GenerateToken(config.Cfg.Auth.AuthorizedUserID)
	if err != nil {
		slog.Error("Error generating token", "err", err)
		return
	}
	slog.Info("Generated bearer token:",
		"user_id", config.Cfg.Auth.AuthorizedUserID,
		"token", token)
}
