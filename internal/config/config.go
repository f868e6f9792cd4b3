package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"surveygen/internal/errors"
)

// Provider names accepted by PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderHeuristic = "heuristic"
)

// Tasks that accept MODEL_ADVANCED_<TASK> / MODEL_STABLE_<TASK> overrides.
var modelTasks = []string{"analysis", "planning", "design", "components", "validation"}

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Models   ModelConfig
	Pipeline PipelineConfig
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	LogLevel string
}

// AIConfig holds model provider settings
type AIConfig struct {
	Provider   string
	OpenAIKey  string
	BaseURL    string
	Timeout    time.Duration
	PromptsDir string // per-file overrides of the embedded prompts; empty means embedded only
}

// ModelConfig holds per-task model overrides keyed by task name. Tasks not
// present keep the built-in tier defaults.
type ModelConfig struct {
	Advanced map[string]string
	Stable   map[string]string
	Probe    bool // list provider models at startup to detect the advanced tier
}

// PipelineConfig holds orchestration limits
type PipelineConfig struct {
	MaxParallel     int
	Timeout         time.Duration // zero disables the run deadline
	FallbackTimeout time.Duration
	UseTemplates    bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the usage ledger connection. An empty URL disables the ledger.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a ledger database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// CacheConfig holds the response cache connection. An empty URL disables caching.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:       *loadAIConfig(),
		Models:   *loadModelConfig(),
		Pipeline: *loadPipelineConfig(),
		Server:   *loadServerConfig(),
		Database: *loadDatabaseConfig(),
		Cache:    *loadCacheConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() *AIConfig {
	return &AIConfig{
		Provider:   strings.ToLower(getEnvOrDefault("PROVIDER", ProviderOpenAI)),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL:    getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Timeout:    getEnvDurationOrDefault("LLM_TIMEOUT", 120*time.Second),
		PromptsDir: os.Getenv("PROMPTS_DIR"),
	}
}

func loadModelConfig() *ModelConfig {
	cfg := &ModelConfig{
		Advanced: map[string]string{},
		Stable:   map[string]string{},
		Probe:    getEnvBoolOrDefault("MODEL_PROBE", true),
	}
	for _, task := range modelTasks {
		suffix := strings.ToUpper(task)
		if v := os.Getenv("MODEL_ADVANCED_" + suffix); v != "" {
			cfg.Advanced[task] = v
		}
		if v := os.Getenv("MODEL_STABLE_" + suffix); v != "" {
			cfg.Stable[task] = v
		}
	}
	return cfg
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		MaxParallel:     getEnvIntOrDefault("PIPELINE_MAX_PARALLEL", 4),
		Timeout:         getEnvDurationOrDefault("PIPELINE_TIMEOUT", 0),
		FallbackTimeout: getEnvDurationOrDefault("FALLBACK_TIMEOUT", 45*time.Second),
		UseTemplates:    getEnvBoolOrDefault("USE_TEMPLATES", true),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadCacheConfig() *CacheConfig {
	return &CacheConfig{
		URL: os.Getenv("REDIS_URL"),
		TTL: getEnvDurationOrDefault("CACHE_TTL", 24*time.Hour),
	}
}

func validateConfig(config *Config) error {
	switch config.AI.Provider {
	case ProviderOpenAI:
		if config.AI.OpenAIKey == "" {
			return errors.ConfigInvalid("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderHeuristic:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown PROVIDER %q", config.AI.Provider))
	}
	if config.Pipeline.MaxParallel < 1 {
		return errors.ConfigInvalid("PIPELINE_MAX_PARALLEL must be at least 1")
	}
	if config.Pipeline.FallbackTimeout <= 0 {
		return errors.ConfigInvalid("FALLBACK_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
