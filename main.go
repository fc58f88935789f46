package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fede-agent-backend/config"
	"fede-agent-backend/controller"
	"fede-agent-backend/dao"
	"fede-agent-backend/router"
	"fede-agent-backend/service/actions"
	"fede-agent-backend/service/learning"
	"fede-agent-backend/service/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	if err := dao.Init(config.Cfg.Storage.DatabasePath); err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}

	learner := learning.NewLearner(config.Cfg.Learning.Threshold, config.Cfg.Learning.Enabled)
	learner.Run()

	controller.Setup(
		session.NewCoordinator(config.Cfg.Storage.SessionTimeoutHours),
		actions.NewExtractor(),
		actions.NewRegistry(),
		learner,
	)

	srv := &http.Server{
		Addr:    net.JoinHostPort(config.Cfg.Server.Host, config.Cfg.Server.Port),
		Handler: router.Register(),
	}

	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	// 在途回合允许完成，消息写入是单次原子操作，不会半途可见
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "err", err)
	}

	learner.Shutdown()
}
