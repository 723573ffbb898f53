// Package app wires stores, services and transports from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"screenbot/internal/cache"
	"screenbot/internal/config"
	"screenbot/internal/repository"
	"screenbot/internal/service"
	"screenbot/internal/transport/chat"
	"screenbot/internal/transport/rest"
	"screenbot/internal/transport/ws"
)

// App is the fully wired bot
type App struct {
	Config *config.Config
	Copy   *config.Copy
	Logger *slog.Logger

	RowStore    repository.RowStore
	Sessions    cache.SessionCache
	AdminBuffer cache.AdminMessageBuffer
	redis       *redis.Client

	Hub          *ws.Hub
	Auth         *service.AuthService
	Scoring      *service.ScoringService
	Alerts       *service.AlertService
	Completion   *service.CompletionService
	Conversation *service.ConversationService
	Reports      *service.ReportService
	Admin        *service.AdminService
	ChatRouter   *chat.Router
}

// NewLogger builds the JSON logger for level ("debug", "info", "warn", "error")
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// OpenRowStore connects to the configured row store
func OpenRowStore(ctx context.Context, cfg *config.Config) (repository.RowStore, error) {
	switch cfg.RowStore {
	case config.RowStoreSQLite:
		return repository.NewSQLiteRecordRepo(cfg.SQLitePath)
	case config.RowStoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("ping MongoDB: %w", err)
		}
		return repository.NewMongoRecordRepo(client.Database(cfg.MongoDatabase), cfg.MongoCollection), nil
	default:
		return nil, fmt.Errorf("unknown row store %q", cfg.RowStore)
	}
}

// NewOracle returns the mock oracle in mock mode and the Responses API client otherwise
func NewOracle(cfg *config.AIConfig) service.Oracle {
	if cfg.IsMock() {
		return service.NewMockOracle(cfg.Model)
	}
	return service.NewOpenAIOracle(cfg)
}

// New connects every store and wires the services. cfg must already be valid.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	texts, err := config.LoadCopy(cfg.CopyFile)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Copy: texts, Logger: logger}

	a.RowStore, err = OpenRowStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := a.redis.Ping(ctx).Result(); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("ping Redis: %w", err)
		}
		a.Sessions = cache.NewRedisSessionCache(a.redis, cfg.SessionTTL)
		a.AdminBuffer = cache.NewRedisAdminBuffer(a.redis, cache.AdminBufferLimit)
	default:
		a.Sessions = cache.NewMemorySessionCache()
		a.AdminBuffer = cache.NewMemoryAdminBuffer(cache.AdminBufferLimit)
	}

	a.Hub = ws.NewHub(logger)
	a.Auth = service.NewAuthService(cfg.ChatTokenSecret, cfg.AdminUserID, cfg.AdminAPISecret, cfg.ChatTokenTTL)
	a.Scoring = service.NewScoringService(NewOracle(cfg.AI), logger)
	a.Alerts = service.NewAlertService(a.Hub, cfg.AdminAlertChatID, &texts.Alert, logger)
	a.Completion = service.NewCompletionService(a.Scoring, a.RowStore, a.Alerts, a.Hub, &texts.Conversation, logger)
	a.Conversation = service.NewConversationService(a.Sessions, a.Hub, a.Completion, texts, cfg.AdminUserID, cfg.PromptPacing, logger)
	a.Reports = service.NewReportService(a.RowStore, &texts.Report)
	a.Admin = service.NewAdminService(a.Reports, a.AdminBuffer, a.Hub, cfg.AdminUserID, &texts.Admin, logger)
	a.ChatRouter = chat.NewRouter(a.Conversation, a.Admin, a.Hub, logger)
	return a, nil
}

// Handler returns the HTTP API including the WebSocket chat endpoint
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:   a.Auth,
		ReportService: a.Reports,
		AdminUserID:   a.Config.AdminUserID,
		WSHandler:     ws.NewHandler(a.Hub, a.Auth, a.ChatRouter, a.Config.AdminUserID, a.Logger),
	})
}

// Close releases store connections
func (a *App) Close(ctx context.Context) {
	if a.RowStore != nil {
		if err := a.RowStore.Close(ctx); err != nil {
			a.Logger.Warn("close row store failed", "error", err)
		}
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
