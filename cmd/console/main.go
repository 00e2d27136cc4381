package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quotedesk/quotedesk/internal/apiclient"
	"github.com/quotedesk/quotedesk/internal/app"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/domain"
	"github.com/quotedesk/quotedesk/internal/grid"
	"github.com/quotedesk/quotedesk/internal/hub"
	"github.com/quotedesk/quotedesk/internal/kvstore"
	"github.com/quotedesk/quotedesk/internal/session"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadConsole()
	if err != nil {
		slog.Error("failed to load console config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("console config loaded",
		"app_title", cfg.AppTitle,
		"api_base_url", cfg.APIBaseURL,
		"state_dir", cfg.StateDir,
		"handshake_timeout", cfg.HandshakeTimeout,
		"reconnect_interval", cfg.ReconnectInterval,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	storage, err := kvstore.Open(cfg.StateDir)
	if err != nil {
		slog.Error("failed to open local state", "dir", cfg.StateDir, "error", err)
		os.Exit(1)
	}

	sess := session.NewStore(storage)
	prefs := app.NewPreferences(storage, cfg.DefaultCulture)
	auth := apiclient.NewAuth(cfg.APIBaseURL, cfg.RequestTimeout, sess)

	if !sess.IsAuthenticated() && cfg.LoginEmail != "" {
		login(auth, sess, cfg.LoginEmail, cfg.LoginPassword)
	}

	hubOpts := hub.Options{
		BaseURL:           cfg.APIBaseURL,
		Tokens:            sess,
		HandshakeTimeout:  cfg.HandshakeTimeout,
		ReconnectInterval: cfg.ReconnectInterval,
	}
	appHub := hub.NewApplicationChannel(hubOpts)
	stocksHub := hub.NewStocksChannel(hubOpts)

	stocksClient := apiclient.NewStocks(cfg.APIBaseURL, cfg.RequestTimeout, sess)
	perfCtrl := grid.NewStockPerformanceController(func(ctx context.Context, f domain.BaseFilter) (domain.PagedResult[domain.StockPerformance], bool) {
		page, ok := stocksClient.ByFilter(ctx, domain.StocksFilter{BaseFilter: f})
		if !ok {
			return domain.PagedResult[domain.StockPerformance]{}, false
		}
		return domain.PagedResult[domain.StockPerformance]{
			Items:      grid.PerformanceFromStocks(page.Items),
			TotalCount: page.TotalCount,
		}, true
	}, nil)

	// Registered before the channels connect so no push is missed.
	stocksHub.OnPriceChanged(func(stocks []domain.Stock) {
		perfCtrl.ApplyPush(grid.PerformanceFromStocks(stocks))
		logMovers(perfCtrl.Rows())
	})

	application := app.New(app.Options{
		Session:  sess,
		Prefs:    prefs,
		Auth:     auth,
		Channels: []app.LiveChannel{appHub, stocksHub},
	})
	if err := application.Start(context.Background()); err != nil {
		slog.Error("console startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Stop()

	slog.Info("console started",
		"title", cfg.AppTitle,
		"culture", application.Culture(),
		"dark_theme", application.DarkTheme(),
		"timezone", application.Timezone(),
		"authenticated", sess.IsAuthenticated(),
		"user", sess.Username(),
	)

	page := perfCtrl.LoadPage(context.Background(), 0, 10, "symbol", true)
	slog.Info("instruments loaded", "rows", len(page.Items), "total", page.TotalCount)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("console shutting down")
}

func login(auth *apiclient.Auth, sess *session.Store, email, password string) {
	result, ok := auth.Login(context.Background(), domain.LoginCredentials{Email: email, Password: password})
	if !ok || !result.Success || result.Token == nil || result.UserProfile == nil {
		slog.Warn("automatic login failed", "email", email)
		return
	}
	profile := result.UserProfile
	err := sess.SetSession(result.Token.Value, result.Token.Expires,
		profile.ID, profile.Role, profile.Username, profile.Email)
	if err != nil {
		slog.Error("session not established", "error", err)
		return
	}
	slog.Info("logged in", "user", profile.Username, "role", profile.Role)
}

// logMovers reports the visible instruments that moved on the latest push.
func logMovers(rows []domain.StockPerformance) {
	for _, row := range rows {
		if row.PriceChange == nil || *row.PriceChange == 0 {
			continue
		}
		slog.Debug("price update",
			"symbol", row.Symbol,
			"price", row.Price,
			"change", *row.PriceChange,
			"up", row.HasIncreased != nil && *row.HasIncreased,
		)
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
