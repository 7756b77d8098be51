// Package config provides centralized default values for PressPlay
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Content Store (headless CMS)
	ContentAPIBaseURL string
	ContentAPIDataset string
	ContentAPIToken   string
	ContentAPITimeout time.Duration

	// Directory Database
	DirectoryDBPath          string
	DirectoryDBURL           string
	DirectoryDBAuthToken     string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int

	// Aggregation windows
	FullWindowReviews  int
	FullWindowArticles int
	FullWindowNews     int
	LightWindowSize    int
	PriorityWindowSize int
	CreatorRecentLimit int

	// Snapshot cache
	SnapshotTTL             time.Duration
	SnapshotCleanupInterval time.Duration

	// Overlay sessions
	MaxOverlaySessions        int
	OverlayHeartbeatInterval  time.Duration
	OverlayInactivityTimeout  time.Duration
	OverlayWriteTimeout       time.Duration
	OverlayMaxInboundMsgBytes int64

	// Auth
	JWTSecret       string
	AESKey          string
	ProfileTokenTTL time.Duration

	// Media
	PlaceholderWidth   int
	PlaceholderQuality float32
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Content Store
	ContentAPIBaseURL = getEnvString("CONTENT_API_BASE_URL", "http://localhost:3333")
	ContentAPIDataset = getEnvString("CONTENT_API_DATASET", "production")
	ContentAPIToken = getEnvString("CONTENT_API_TOKEN", "")
	ContentAPITimeout = getEnvDuration("CONTENT_API_TIMEOUT", 10*time.Second)

	// Directory Database
	DirectoryDBPath = getEnvString("DIRECTORY_DB_PATH", "directory.db")
	DirectoryDBURL = getEnvString("DIRECTORY_DB_URL", "")
	DirectoryDBAuthToken = getEnvString("DIRECTORY_DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	// Aggregation windows: the full sub-window per section, the light
	// sub-window appended after it, and the leading slice that keeps the
	// heavy placeholder payload.
	FullWindowReviews = getEnvInt("FULL_WINDOW_REVIEWS", 10)
	FullWindowArticles = getEnvInt("FULL_WINDOW_ARTICLES", 12)
	FullWindowNews = getEnvInt("FULL_WINDOW_NEWS", 18)
	LightWindowSize = getEnvInt("LIGHT_WINDOW_SIZE", 10)
	PriorityWindowSize = getEnvInt("PRIORITY_WINDOW_SIZE", 5)
	CreatorRecentLimit = getEnvInt("CREATOR_RECENT_LIMIT", 24)

	// Snapshot cache
	SnapshotTTL = time.Duration(getEnvInt("SNAPSHOT_TTL_HOURS", 24)) * time.Hour
	SnapshotCleanupInterval = time.Duration(getEnvInt("SNAPSHOT_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Overlay sessions
	MaxOverlaySessions = getEnvInt("MAX_OVERLAY_SESSIONS", 5000)
	OverlayHeartbeatInterval = time.Duration(getEnvInt("OVERLAY_HEARTBEAT_INTERVAL_SECONDS", 30)) * time.Second
	OverlayInactivityTimeout = time.Duration(getEnvInt("OVERLAY_INACTIVITY_TIMEOUT_MINUTES", 30)) * time.Minute
	OverlayWriteTimeout = time.Duration(getEnvInt("OVERLAY_WRITE_TIMEOUT_SECONDS", 10)) * time.Second
	OverlayMaxInboundMsgBytes = int64(getEnvInt("OVERLAY_MAX_INBOUND_MSG_BYTES", 4096))

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	ProfileTokenTTL = time.Duration(getEnvInt("PROFILE_TOKEN_TTL_HOURS", 72)) * time.Hour

	// Media
	PlaceholderWidth = getEnvInt("PLACEHOLDER_WIDTH", 24)
	PlaceholderQuality = float32(getEnvInt("PLACEHOLDER_QUALITY", 20))
}
