package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Validator *validator.Validate
}

// AppConfig represents the application configuration. Bank credentials are
// not part of it; every transaction request carries its own bank config.
type AppConfig struct {
	Port               string
	APIKey             string
	Environment        string
	ConnectorURL       string
	ConnectorToken     string
	ConnectorTimeout   time.Duration
	DBDriver           string
	DBDSN              string
	CatalogSeedFile    string
	OpenSearchURL      string
	OpenSearchUser     string
	OpenSearchPass     string
	EnableLogging      bool
	LoggingLevel       string
	RateLimitPerMinute int
	AllowedOrigins     []string
}

var (
	instance     *Config
	instanceOnce sync.Once
)

func App() *Config {
	instanceOnce.Do(func() {
		v := validator.New()
		// report json field names so errors match the request body
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		instance = &Config{
			Validator: v,
		}
	})
	return instance
}

// Load reads the application configuration from the environment
func Load() *AppConfig {
	return &AppConfig{
		Port:               GetEnv("APP_PORT", "9999"),
		APIKey:             GetEnv("API_KEY", ""),
		Environment:        GetEnv("ENVIRONMENT", "development"),
		ConnectorURL:       GetEnv("CONNECTOR_URL", "http://localhost:8080/payment_processor.php"),
		ConnectorToken:     GetEnv("CONNECTOR_TOKEN", ""),
		ConnectorTimeout:   GetDurationEnv("CONNECTOR_TIMEOUT", 30*time.Second),
		DBDriver:           GetEnv("DB_DRIVER", "sqlite3"),
		DBDSN:              GetEnv("DB_DSN", "./data/gopos.db"),
		CatalogSeedFile:    GetEnv("CATALOG_SEED_FILE", "./catalog.yaml"),
		OpenSearchURL:      GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
		OpenSearchUser:     GetEnv("OPENSEARCH_USER", ""),
		OpenSearchPass:     GetEnv("OPENSEARCH_PASSWORD", ""),
		EnableLogging:      GetBoolEnv("ENABLE_OPENSEARCH_LOGGING", false),
		LoggingLevel:       GetEnv("LOGGING_LEVEL", "info"),
		RateLimitPerMinute: GetIntEnv("RATE_LIMIT_PER_MINUTE", 100),
		AllowedOrigins:     GetListEnv("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// IsProduction reports whether the service runs in production
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

const (
	minRequestTimeout = 60 * time.Second
	// requestTimeoutMargin leaves room to map a bank timeout to a response
	requestTimeoutMargin = 15 * time.Second
)

// RequestTimeout bounds one HTTP request. It always outlasts the connector
// timeout so a slow bank surfaces as a gateway timeout, not a canceled call.
func (c *AppConfig) RequestTimeout() time.Duration {
	return max(minRequestTimeout, c.ConnectorTimeout+requestTimeoutMargin)
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDurationEnv accepts Go durations ("45s") or plain seconds ("45")
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// GetListEnv splits a comma-separated environment variable
func GetListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
