// Package config provides centralized default values for portfolio-go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
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

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
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

func getEnvStringSlice(key string, defaultValue []string) []string {
	if valStr := os.Getenv(key); valStr != "" {
		parts := strings.Split(valStr, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
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
	Environment        string
	AllowedOrigins     []string

	// Cache Gateway Configuration
	CacheVersion       string
	AssetOrigin        string
	AssetManifestPath  string
	APIPathMarker      string
	AssetsToCache      []string
	SyncQueueKey       string
	CacheEntryTTL      time.Duration
	CleanupInterval    time.Duration
	CleanupVerbose     bool
	UpdatePollInterval time.Duration
	AssetWatchDir      string

	// Form Configuration
	RateLimitWindow   time.Duration
	RateLimitMaxTries int
	NameMinLength     int
	MessageMinLength  int
	MessageMaxLength  int
	DraftDebounce     time.Duration
	SuccessResetDelay time.Duration
	ContactEndpoint   string
	DraftStorageKey   string

	// Database Configuration
	DBDriver                 string
	DBPath                   string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int

	// Email Configuration
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	ContactInbox  string

	// Verification Configuration
	RecaptchaSiteKey   string
	RecaptchaSecretKey string
	RecaptchaEndpoint  string

	// Admin Configuration
	JWTSecret         string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	// Media Configuration
	MediaSourceDir    string
	MediaOutputDir    string
	MediaVariantSizes []int

	// Content Configuration
	ContentPath string
)

// IsProduction reports whether the service runs with production behavior
// (verification required, analytics persisted, gateway registered).
func IsProduction() bool {
	return Environment == "production"
}

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	Environment = getEnvString("ENV", "development")
	AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:4321",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:4321",
	})

	// Cache Gateway
	CacheVersion = getEnvString("CACHE_VERSION", "portfolio-v1")
	AssetOrigin = getEnvString("ASSET_ORIGIN", "http://localhost:4321")
	AssetManifestPath = getEnvString("ASSET_MANIFEST_PATH", "/site.webmanifest")
	APIPathMarker = getEnvString("API_PATH_MARKER", "/api/")
	AssetsToCache = getEnvStringSlice("ASSETS_TO_CACHE", []string{
		"/",
		"/index.html",
		"/favicon.ico",
		"/manifest.json",
		"/logo192.png",
		"/logo512.png",
		"/robots.txt",
		"/site.webmanifest",
	})
	SyncQueueKey = getEnvString("SYNC_QUEUE_KEY", "/api/contact/queue")
	CacheEntryTTL = time.Duration(getEnvInt("CACHE_ENTRY_TTL_HOURS", 24)) * time.Hour
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	CleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)
	UpdatePollInterval = getEnvDuration("UPDATE_POLL_INTERVAL", time.Hour)
	AssetWatchDir = getEnvString("ASSET_WATCH_DIR", "")

	// Form
	RateLimitWindow = getEnvDuration("FORM_RATE_LIMIT_WINDOW", time.Minute)
	RateLimitMaxTries = getEnvInt("FORM_RATE_LIMIT_MAX_TRIES", 3)
	NameMinLength = getEnvInt("FORM_NAME_MIN_LENGTH", 2)
	MessageMinLength = getEnvInt("FORM_MESSAGE_MIN_LENGTH", 10)
	MessageMaxLength = getEnvInt("FORM_MESSAGE_MAX_LENGTH", 2000)
	DraftDebounce = getEnvDuration("FORM_DRAFT_DEBOUNCE", 500*time.Millisecond)
	SuccessResetDelay = getEnvDuration("FORM_SUCCESS_RESET_DELAY", 5*time.Second)
	ContactEndpoint = getEnvString("CONTACT_ENDPOINT", "http://localhost:"+Port+"/api/contact")
	DraftStorageKey = getEnvString("DRAFT_STORAGE_KEY", "contactFormDraft")

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "portfolio.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@portfolio.local")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Portfolio")
	ContactInbox = getEnvString("CONTACT_INBOX", "")

	// Verification
	RecaptchaSiteKey = getEnvString("RECAPTCHA_SITE_KEY", "")
	RecaptchaSecretKey = getEnvString("RECAPTCHA_SECRET_KEY", "")
	RecaptchaEndpoint = getEnvString("RECAPTCHA_ENDPOINT", "https://www.google.com/recaptcha/api/siteverify")

	// Admin
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)

	// Media
	MediaSourceDir = getEnvString("MEDIA_SOURCE_DIR", "web/images")
	MediaOutputDir = getEnvString("MEDIA_OUTPUT_DIR", "web/images/generated")
	MediaVariantSizes = func() []int {
		sizes := getEnvStringSlice("MEDIA_VARIANT_SIZES", []string{"320", "640", "1024"})
		out := make([]int, 0, len(sizes))
		for _, s := range sizes {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				out = append(out, n)
			}
		}
		return out
	}()

	// Content
	ContentPath = getEnvString("CONTENT_PATH", "content/portfolio.yaml")
}
