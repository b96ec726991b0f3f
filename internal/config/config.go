package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	validBackends  = []string{BackendSQLite, BackendMemory}
	validLogLevels = []string{"debug", "info", "warn", "warning", "error"}
)

type Config struct {
	// HTTP Server
	Port           string
	MetricsEnabled bool

	// Storage
	DataBackend   string
	SQLiteDBPath  string
	MemorySeedDir string

	// Quotes
	QuoteOutputDir  string
	CompanyName     string
	QuoteSessionTTL time.Duration
	QuoteSessionMax int

	// Logging
	LogLevel string

	// AMQP (optional quote publication)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets (optional export)
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),

		DataBackend:   getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/erp.db"),
		MemorySeedDir: getEnv("MEMORY_SEED_DIR", "data"),

		QuoteOutputDir:  getEnv("QUOTE_OUTPUT_DIR", "./orcamentos"),
		CompanyName:     getEnv("COMPANY_NAME", "Esquadrias de Alumínio Ltda."),
		QuoteSessionTTL: getEnvDuration("QUOTE_SESSION_TTL", 2*time.Hour),
		QuoteSessionMax: getEnvInt("QUOTE_SESSION_MAX", 100),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "erp"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "quotes"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
	}
}

// AMQPEnabled reports whether generated quotes are published to a queue.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// SheetsEnabled reports whether a spreadsheet export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendSQLite && strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if strings.TrimSpace(c.QuoteOutputDir) == "" {
		errors = append(errors, "quote output directory cannot be empty")
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		errors = append(errors, "company name cannot be empty")
	}
	if c.QuoteSessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid quote session TTL %v: must be at least 1 minute", c.QuoteSessionTTL))
	} else if c.QuoteSessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid quote session TTL %v: must be at most 24 hours", c.QuoteSessionTTL))
	}
	if c.QuoteSessionMax < 1 || c.QuoteSessionMax > 10000 {
		errors = append(errors, fmt.Sprintf("invalid quote session limit %d: must be between 1 and 10000", c.QuoteSessionMax))
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for the spreadsheet export")
		}
		if hasFile && !hasJSON {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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
