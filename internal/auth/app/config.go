package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
)

type Config struct {
	Issuer  string // Optional: issuer claim for session tokens (default: BaseURL)
	BaseURL string // Optional: public origin used for OAuth redirect URLs (default: http://localhost:8080)

	NumKeys        int           // Optional: number of signing keys (default: 3, min: 1, max: 10)
	KeyStorageMode string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	KeyLifetime    time.Duration // Optional: how long a persisted key signs new tokens (default: 90 days)
	MasterKeyPath  string        // Required in persistent mode: path to the key encryption secret
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./gymgate.db)

	SessionTTL         time.Duration // Optional: session token lifetime (default: 30 days)
	RefreshWindow      time.Duration // Optional: how long after expiry a token can be refreshed (default: 7 days)
	DefaultInviteHours int           // Optional: invite expiry when a request leaves it out (default: 168)
	CookieSecure       bool          // Optional: mark cookies Secure (default: true unless BaseURL is http)
	OwnerEmail         string        // Optional: account promoted to owner on startup when no owner exists

	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	ReconcileInterval   time.Duration // Invite link reconciler interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         os.Getenv("GYMGATE_ISSUER"),
		BaseURL:        strings.TrimRight(getEnvOrDefault("GYMGATE_BASE_URL", "http://localhost:8080"), "/"),
		NumKeys:        getEnvIntOrDefault("GYMGATE_NUM_KEYS", 0),
		KeyStorageMode: getEnvOrDefault("GYMGATE_KEY_STORAGE_MODE", "ephemeral"),
		KeyLifetime:    getEnvDurationOrDefault("GYMGATE_KEY_LIFETIME", jwtx.DefaultKeyLifetime),
		MasterKeyPath:  os.Getenv("GYMGATE_MASTER_KEY_PATH"),
		DatabaseFile:   getEnvOrDefault("GYMGATE_DATABASE_FILE", "gymgate.db"),

		SessionTTL:         getEnvDurationOrDefault("GYMGATE_SESSION_TTL", jwtx.DefaultSessionTTL),
		RefreshWindow:      getEnvDurationOrDefault("GYMGATE_REFRESH_WINDOW", service.DefaultRefreshWindow),
		DefaultInviteHours: getEnvIntOrDefault("GYMGATE_INVITE_TTL", service.DefaultInviteHours),
		OwnerEmail:         os.Getenv("GYMGATE_OWNER_EMAIL"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		ReconcileInterval:   getEnvDurationOrDefault("RECONCILE_INTERVAL", 1*time.Hour),
	}

	cfg.CookieSecure = getEnvBoolOrDefault("GYMGATE_COOKIE_SECURE", strings.HasPrefix(cfg.BaseURL, "https://"))

	if cfg.Issuer == "" {
		cfg.Issuer = cfg.BaseURL
	}

	return cfg
}

// KeyRetention is how long an expired signing key must stay in storage:
// tokens it signed can still be refreshed until their refresh window closes.
func (c Config) KeyRetention() time.Duration {
	return c.SessionTTL + c.RefreshWindow
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
