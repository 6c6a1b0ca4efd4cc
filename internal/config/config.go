package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Data backends accepted by DATA_BACKEND.
const (
	BackendCSV    = "csv"
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validBackends = []string{BackendCSV, BackendXLSX, BackendSheets, BackendSQLite, BackendMemory}

type Config struct {
	// HTTP Server
	Port string

	// Dataset source
	DataBackend string
	DatasetPath string
	XLSXSheet   string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID       string
	GoogleSheetRange          string
	GoogleServiceAccountJSON  string
	GoogleServiceAccountFile  string
	GoogleApplicationCredFile string

	// AMQP (optional, enables query audit events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Queries
	InvestorMatch string

	// Response cache
	CacheSize int
	CacheTTL  time.Duration

	// Audit worker
	AuditReportInterval time.Duration

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendCSV)),
		DatasetPath: getEnv("DATASET_PATH", "./data/startup_cleaned.csv"),
		XLSXSheet:   getEnv("XLSX_SHEET", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fundboard.db"),

		GoogleSpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:          getEnv("GOOGLE_SHEET_RANGE", "Funding!A:I"),
		GoogleServiceAccountJSON:  getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:  getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fundboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "query_events"),

		InvestorMatch: strings.ToLower(getEnv("INVESTOR_MATCH", "exact")),

		CacheSize: getEnvInt("CACHE_SIZE", 200),
		CacheTTL:  getEnvDuration("CACHE_TTL", 30*time.Minute),

		AuditReportInterval: getEnvDuration("AUDIT_REPORT_INTERVAL", time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// File backends need a readable dataset
	if c.DataBackend == BackendCSV || c.DataBackend == BackendXLSX {
		if c.DatasetPath == "" {
			errors = append(errors, fmt.Sprintf("dataset path cannot be empty when using %s backend", c.DataBackend))
		} else if _, err := os.Stat(c.DatasetPath); err != nil {
			errors = append(errors, fmt.Sprintf("dataset file '%s' is not readable: %v", c.DatasetPath, err))
		}
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == BackendSheets {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetRange == "" {
			errors = append(errors, "Google Sheet range is required when using sheets backend")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && c.GoogleApplicationCredFile == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate AMQP URL if provided
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

	if c.InvestorMatch != "exact" && c.InvestorMatch != "substring" {
		errors = append(errors, fmt.Sprintf("invalid investor match '%s': must be 'exact' or 'substring'", c.InvestorMatch))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must not be negative", c.CacheTTL))
	}

	if c.AuditReportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid audit report interval %v: must be at least 1 second", c.AuditReportInterval))
	} else if c.AuditReportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid audit report interval %v: must be at most 24 hours", c.AuditReportInterval))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Return combined errors
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
