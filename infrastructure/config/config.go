package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`
	APIBasePath   string `yaml:"apiBasePath"`

	// AWS configuration
	AWSRegion     string `yaml:"awsRegion"`
	DynamoDBTable string `yaml:"dynamoDBTable"`
	IndexName     string `yaml:"indexName"` // GSI1 - lists place items during imports
	EventBusName  string `yaml:"eventBusName"`

	// Search index
	SearchEndpoint     string `yaml:"searchEndpoint"`
	SearchIndex        string `yaml:"searchIndex"`
	SearchSignRequests bool   `yaml:"searchSignRequests"`
	SearchMaxResults   int    `yaml:"searchMaxResults"`

	// Per-call budgets for the backing stores
	StoreTimeout  time.Duration `yaml:"storeTimeout"`
	SearchTimeout time.Duration `yaml:"searchTimeout"`

	// Response contract
	NotFoundStatus     int           `yaml:"notFoundStatus"`
	CategoriesCacheTTL time.Duration `yaml:"categoriesCacheTTL"`
	CORSAllowedOrigins []string      `yaml:"corsAllowedOrigins"`

	// Ingestion
	CSVDataURLs      []string      `yaml:"csvDataURLs"`
	MetricsNamespace string        `yaml:"metricsNamespace"`
	ImportLockTTL    time.Duration `yaml:"importLockTTL"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Feature flags
	EnableMetrics bool `yaml:"enableMetrics"`
	EnableTracing bool `yaml:"enableTracing"`
	EnableCORS    bool `yaml:"enableCORS"`
}

func defaults() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		APIBasePath:        "/",
		AWSRegion:          "eu-west-1",
		DynamoDBTable:      "sptpts",
		IndexName:          "GSI1",
		SearchEndpoint:     "http://localhost:9200",
		SearchIndex:        "places",
		SearchMaxResults:   50,
		StoreTimeout:       3 * time.Second,
		SearchTimeout:      5 * time.Second,
		NotFoundStatus:     404,
		CORSAllowedOrigins: []string{"*"},
		MetricsNamespace:   "SptPts/Import",
		ImportLockTTL:      30 * time.Minute,
		LogLevel:           "info",
		EnableCORS:         true,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables, in that order of precedence.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.APIBasePath = getEnv("API_BASE_PATH", c.APIBasePath)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("DATA_TABLE", getEnv("TABLE_NAME", c.DynamoDBTable))
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.SearchEndpoint = getEnv("SEARCH_ENDPOINT", c.SearchEndpoint)
	c.SearchIndex = getEnv("SEARCH_INDEX", c.SearchIndex)
	c.SearchSignRequests = getEnvBool("SEARCH_SIGN_REQUESTS", c.SearchSignRequests)
	c.SearchMaxResults = getEnvInt("SEARCH_MAX_RESULTS", c.SearchMaxResults)

	c.StoreTimeout = getEnvDuration("STORE_TIMEOUT", c.StoreTimeout)
	c.SearchTimeout = getEnvDuration("SEARCH_TIMEOUT", c.SearchTimeout)

	c.NotFoundStatus = getEnvInt("NOT_FOUND_STATUS", c.NotFoundStatus)
	c.CategoriesCacheTTL = getEnvDuration("CATEGORIES_CACHE_TTL", c.CategoriesCacheTTL)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}

	if raw := os.Getenv("CSV_DATA_URLS"); raw != "" {
		urls, err := parseURLList(raw)
		if err != nil {
			return err
		}
		c.CSVDataURLs = urls
	}
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
	c.ImportLockTTL = getEnvDuration("IMPORT_LOCK_TTL", c.ImportLockTTL)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("DATA_TABLE is required")
	}
	if c.SearchIndex == "" {
		return fmt.Errorf("SEARCH_INDEX is required")
	}
	if _, err := url.ParseRequestURI(c.SearchEndpoint); err != nil {
		return fmt.Errorf("SEARCH_ENDPOINT is not a valid URL: %w", err)
	}
	if c.NotFoundStatus < 400 || c.NotFoundStatus > 499 {
		return fmt.Errorf("NOT_FOUND_STATUS must be a 4xx status, got %d", c.NotFoundStatus)
	}
	if c.StoreTimeout <= 0 || c.SearchTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT and SEARCH_TIMEOUT must be positive")
	}
	if c.SearchMaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be positive")
	}
	if c.CategoriesCacheTTL < 0 || (c.CategoriesCacheTTL > 0 && c.CategoriesCacheTTL < time.Second) {
		return fmt.Errorf("CATEGORIES_CACHE_TTL must be 0 or at least 1s, got %s", c.CategoriesCacheTTL)
	}
	if !strings.HasPrefix(c.APIBasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with '/', got %q", c.APIBasePath)
	}
	if c.Environment == "production" && c.SearchEndpoint == defaults().SearchEndpoint {
		return fmt.Errorf("SEARCH_ENDPOINT is required in production")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("750ms") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// parseURLList reads CSV_DATA_URLS, a JSON array of strings. A plain comma-separated
// list is accepted as well.
func parseURLList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			return nil, fmt.Errorf("CSV_DATA_URLS is not a JSON array of strings: %w", err)
		}
		return urls, nil
	}
	return splitList(raw), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
