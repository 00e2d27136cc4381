package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/devapi"
	"github.com/quotedesk/quotedesk/internal/netutil"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		slog.Error("failed to load devapi config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("devapi config loaded",
		"bind_addr", cfg.BindAddr,
		"tick_interval", cfg.TickInterval,
		"tick_enabled", cfg.TickEnabled,
		"seed_companies", cfg.SeedCompanies,
		"seed_stocks", cfg.SeedStocks,
		"seed_users", cfg.SeedUsers,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	store := devapi.NewStore()
	store.Seed(cfg.SeedCompanies, cfg.SeedStocks, cfg.SeedUsers)
	broker := devapi.NewBroker()
	hubs := devapi.NewHubServer(store, broker)

	ticker := devapi.NewTicker(store, broker, cfg.TickInterval)
	if cfg.TickEnabled {
		ticker.Start()
	}
	defer ticker.Stop()

	srv := &http.Server{Addr: bindAddr, Handler: devapi.NewServer(store, hubs)}

	go func() {
		slog.Info("devapi listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("devapi server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("devapi shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
