// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Row store backends
const (
	RowStoreMongo  = "mongo"
	RowStoreSQLite = "sqlite"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds the bot configuration
type Config struct {
	// Transport
	HTTPPort        string
	ChatTokenSecret string // signs chat tokens for the WebSocket transport
	ChatTokenTTL    time.Duration

	// Admin
	AdminUserID      int64
	AdminAlertChatID int64
	AdminAPISecret   string // REST admin login; empty disables login

	// Row store
	RowStore        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	SQLitePath      string

	// Session store and admin buffer
	SessionStore string
	RedisAddr    string
	SessionTTL   time.Duration

	// Conversation
	PromptPacing time.Duration
	CopyFile     string

	// Scoring
	AI *AIConfig

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		ChatTokenSecret:  os.Getenv("CHAT_TOKEN_SECRET"),
		ChatTokenTTL:     time.Duration(getEnvInt("CHAT_TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminUserID:      getEnvInt64("ADMIN_USER_ID", 0),
		AdminAlertChatID: getEnvInt64("ADMIN_ALERT_CHAT_ID", 0),
		AdminAPISecret:   os.Getenv("ADMIN_API_SECRET"),
		RowStore:         getEnv("ROW_STORE", RowStoreMongo),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "screening"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "session_records"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		SessionStore:     getEnv("SESSION_STORE", SessionStoreMemory),
		RedisAddr:        strings.TrimPrefix(os.Getenv("REDIS_ADDR"), "redis://"),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		PromptPacing:     time.Duration(getEnvInt("PROMPT_PACING_MS", 900)) * time.Millisecond,
		CopyFile:         os.Getenv("COPY_FILE"),
		AI:               DefaultAIConfig(),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every missing or invalid required setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.ChatTokenSecret == "" {
		errs = append(errs, errors.New("CHAT_TOKEN_SECRET is required"))
	}
	if c.AdminUserID == 0 {
		errs = append(errs, errors.New("ADMIN_USER_ID is required"))
	}
	if c.AdminAlertChatID == 0 {
		errs = append(errs, errors.New("ADMIN_ALERT_CHAT_ID is required"))
	}

	switch c.RowStore {
	case RowStoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for ROW_STORE=mongo"))
		}
	case RowStoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for ROW_STORE=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("ROW_STORE must be %q or %q, got %q", RowStoreMongo, RowStoreSQLite, c.RowStore))
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore))
	}

	if c.AI.Model == "" {
		errs = append(errs, errors.New("LLM_MODEL is required"))
	}
	if !c.AI.IsMock() && c.AI.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required unless SCORING_MODE=mock"))
	}
	return errors.Join(errs...)
}

// RowStoreLocation describes where records go, without credentials
func (c *Config) RowStoreLocation() string {
	if c.RowStore == RowStoreSQLite {
		return "sqlite:" + c.SQLitePath
	}
	return fmt.Sprintf("mongo:%s.%s", c.MongoDatabase, c.MongoCollection)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}
