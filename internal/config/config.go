package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is stamped into settings.app_version on every schema sync.
// Overridable at build time via -ldflags "-X expensewise/internal/config.Version=...".
var Version = "1.0.0"

type Config struct {
	// HTTP server
	Port     string
	LogLevel string

	// Storage
	Backend      string // memory | file | sqlite
	SQLiteDBPath string
	DataDir      string

	// Device identity
	DeviceUserID string

	// AMQP backup queue
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Remote backup
	RemoteBaseURL  string
	BackupDebounce time.Duration
	BackupInterval time.Duration

	// Spreadsheet export
	SpreadsheetID      string
	SpreadsheetSheet   string
	ServiceAccountFile string

	// AI assistant
	AssistantURL    string
	AssistantAPIKey string
	AssistantModel  string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Backend:      getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expensewise.db"),
		DataDir:      getEnv("DATA_DIR", "./data"),

		DeviceUserID: getEnv("DEVICE_USER_ID", "local"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensewise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "backup_jobs"),

		RemoteBaseURL:  getEnv("REMOTE_BASE_URL", ""),
		BackupDebounce: getEnvDuration("BACKUP_DEBOUNCE", 24*time.Hour),
		BackupInterval: getEnvDuration("BACKUP_INTERVAL", time.Hour),

		SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
		SpreadsheetSheet:   getEnv("SPREADSHEET_SHEET", "Expenses"),
		ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AssistantURL:    getEnv("ASSISTANT_URL", ""),
		AssistantAPIKey: getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:  getEnv("ASSISTANT_MODEL", "llama-3.1-8b-instant"),
	}
}

// Validate checks the configuration, collecting every problem before failing.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Backend {
	case "memory", "file", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory file sqlite]", c.Backend))
	}

	// The database directory is created by the store on open, not here;
	// validation never touches the filesystem.
	if c.Backend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}
	if c.Backend == "file" && c.DataDir == "" {
		errs = append(errs, "data dir cannot be empty when using file backend")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RemoteBaseURL != "" {
		if parsed, err := url.Parse(c.RemoteBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid remote base URL '%s'", c.RemoteBaseURL))
		}
	}
	if c.BackupDebounce < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid backup debounce %v: must be at least 1 minute", c.BackupDebounce))
	}
	if c.BackupInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid backup interval %v: must be at least 1 second", c.BackupInterval))
	}

	if c.SpreadsheetID != "" && c.ServiceAccountFile != "" {
		if _, err := os.Stat(c.ServiceAccountFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("service account file does not exist: %s", c.ServiceAccountFile))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
