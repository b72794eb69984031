package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application.
type Config struct {
	App       AppConfig
	Registrar RegistrarConfig
	OpenAI    OpenAIConfig
	Suggest   SuggestConfig
	Cache     CacheConfig
	Breaker   BreakerConfig
	Throttle  ThrottleConfig
	Prescreen PrescreenConfig
	Database  DatabaseConfig
}

// AppConfig holds application configuration.
type AppConfig struct {
	LogLevel    string
	Environment string
}

// RegistrarConfig holds registrar API configuration.
type RegistrarConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// OpenAIConfig holds candidate generation configuration.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// SuggestConfig holds orchestrator tuning.
type SuggestConfig struct {
	TargetCount      int
	MaxRounds        int
	MaxSuggestions   int
	BatchSize        int
	DefaultExtension string
	ExtensionBias    float64
	RoundDelay       time.Duration
	AcceptPremium    bool
	Salvage          bool
}

// CacheConfig holds TTL cache configuration.
type CacheConfig struct {
	AvailabilityTTL time.Duration
	ResponseTTL     time.Duration
	SweepInterval   time.Duration
}

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

// ThrottleConfig holds the per-client request gate configuration.
type ThrottleConfig struct {
	Limit  int
	Window time.Duration
}

// PrescreenConfig holds web-presence prescreen configuration.
type PrescreenConfig struct {
	Enabled     bool
	Timeout     time.Duration
	Concurrency int
	RateLimit   int
}

// DatabaseConfig holds analytics database configuration. The database is
// optional; without it search recording is disabled.
type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	config := &Config{}

	config.App = AppConfig{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	registrarTimeout, err := time.ParseDuration(getEnv("REGISTRAR_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REGISTRAR_TIMEOUT: %w", err)
	}
	config.Registrar = RegistrarConfig{
		BaseURL:   getEnv("REGISTRAR_BASE_URL", ""),
		APIKey:    getEnv("REGISTRAR_API_KEY", ""),
		APISecret: getEnv("REGISTRAR_API_SECRET", ""),
		Timeout:   registrarTimeout,
	}

	config.OpenAI = OpenAIConfig{
		APIKey: getEnv("OPENAI_API_KEY", ""),
		Model:  getEnv("OPENAI_MODEL", ""),
	}

	targetCount, err := strconv.Atoi(getEnv("SUGGEST_TARGET_COUNT", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_TARGET_COUNT: %w", err)
	}
	maxRounds, err := strconv.Atoi(getEnv("SUGGEST_MAX_ROUNDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_MAX_ROUNDS: %w", err)
	}
	maxSuggestions, err := strconv.Atoi(getEnv("SUGGEST_MAX_RESULTS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_MAX_RESULTS: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("SUGGEST_BATCH_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_BATCH_SIZE: %w", err)
	}
	extensionBias, err := strconv.ParseFloat(getEnv("SUGGEST_EXTENSION_BIAS", "0.6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_EXTENSION_BIAS: %w", err)
	}
	roundDelay, err := time.ParseDuration(getEnv("SUGGEST_ROUND_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGEST_ROUND_DELAY: %w", err)
	}
	config.Suggest = SuggestConfig{
		TargetCount:      targetCount,
		MaxRounds:        maxRounds,
		MaxSuggestions:   maxSuggestions,
		BatchSize:        batchSize,
		DefaultExtension: getEnv("SUGGEST_DEFAULT_EXTENSION", ".com"),
		ExtensionBias:    extensionBias,
		RoundDelay:       roundDelay,
		AcceptPremium:    getEnvBool("SUGGEST_ACCEPT_PREMIUM", false),
		Salvage:          getEnvBool("SUGGEST_SALVAGE_PARSING", true),
	}

	availabilityTTL, err := time.ParseDuration(getEnv("CACHE_AVAILABILITY_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_AVAILABILITY_TTL: %w", err)
	}
	responseTTL, err := time.ParseDuration(getEnv("CACHE_RESPONSE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_RESPONSE_TTL: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("CACHE_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SWEEP_INTERVAL: %w", err)
	}
	config.Cache = CacheConfig{
		AvailabilityTTL: availabilityTTL,
		ResponseTTL:     responseTTL,
		SweepInterval:   sweepInterval,
	}

	failureThreshold, err := strconv.Atoi(getEnv("BREAKER_FAILURE_THRESHOLD", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: %w", err)
	}
	cooldown, err := time.ParseDuration(getEnv("BREAKER_COOLDOWN", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_COOLDOWN: %w", err)
	}
	config.Breaker = BreakerConfig{
		FailureThreshold: failureThreshold,
		Cooldown:         cooldown,
	}

	throttleLimit, err := strconv.Atoi(getEnv("THROTTLE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid THROTTLE_LIMIT: %w", err)
	}
	throttleWindow, err := time.ParseDuration(getEnv("THROTTLE_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid THROTTLE_WINDOW: %w", err)
	}
	config.Throttle = ThrottleConfig{
		Limit:  throttleLimit,
		Window: throttleWindow,
	}

	prescreenTimeout, err := time.ParseDuration(getEnv("PRESCREEN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESCREEN_TIMEOUT: %w", err)
	}
	prescreenConcurrency, err := strconv.Atoi(getEnv("PRESCREEN_CONCURRENCY", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESCREEN_CONCURRENCY: %w", err)
	}
	prescreenRateLimit, err := strconv.Atoi(getEnv("PRESCREEN_RATE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESCREEN_RATE_LIMIT: %w", err)
	}
	config.Prescreen = PrescreenConfig{
		Enabled:     getEnvBool("PRESCREEN_ENABLED", false),
		Timeout:     prescreenTimeout,
		Concurrency: prescreenConcurrency,
		RateLimit:   prescreenRateLimit,
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	maxIdleConns, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            dbPort,
		Name:            getEnv("DB_NAME", "namescout"),
		User:            getEnv("DB_USER", "namescout"),
		Password:        getEnv("DB_PASSWORD", ""),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateApp(); err != nil {
		errors = append(errors, fmt.Sprintf("application: %v", err))
	}
	if err := c.validateSuggest(); err != nil {
		errors = append(errors, fmt.Sprintf("suggest: %v", err))
	}
	if err := c.validateCache(); err != nil {
		errors = append(errors, fmt.Sprintf("cache: %v", err))
	}
	if err := c.validateBreaker(); err != nil {
		errors = append(errors, fmt.Sprintf("breaker: %v", err))
	}
	if err := c.validateThrottle(); err != nil {
		errors = append(errors, fmt.Sprintf("throttle: %v", err))
	}
	if err := c.validateDatabase(); err != nil {
		errors = append(errors, fmt.Sprintf("database: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// HasRegistrarConfig reports whether registrar credentials are present.
func (c *Config) HasRegistrarConfig() bool {
	return c.Registrar.APIKey != ""
}

// HasOpenAIConfig reports whether generation credentials are present.
func (c *Config) HasOpenAIConfig() bool {
	return c.OpenAI.APIKey != ""
}

// HasDatabaseConfig reports whether the analytics database is configured.
func (c *Config) HasDatabaseConfig() bool {
	return c.Database.Host != "" && c.Database.Password != ""
}

// validateApp validates application configuration.
func (c *Config) validateApp() error {
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	validLogLevel := false
	for _, level := range validLogLevels {
		if c.App.LogLevel == level {
			validLogLevel = true
			break
		}
	}
	if !validLogLevel {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	validEnvironments := []string{"development", "staging", "production", "test"}
	validEnvironment := false
	for _, env := range validEnvironments {
		if c.App.Environment == env {
			validEnvironment = true
			break
		}
	}
	if !validEnvironment {
		return fmt.Errorf("ENVIRONMENT must be one of: %s", strings.Join(validEnvironments, ", "))
	}

	return nil
}

// validateSuggest validates orchestrator tuning.
func (c *Config) validateSuggest() error {
	if c.Suggest.TargetCount <= 0 || c.Suggest.TargetCount > 50 {
		return fmt.Errorf("SUGGEST_TARGET_COUNT must be between 1 and 50")
	}
	if c.Suggest.MaxRounds <= 0 || c.Suggest.MaxRounds > 20 {
		return fmt.Errorf("SUGGEST_MAX_ROUNDS must be between 1 and 20")
	}
	if c.Suggest.MaxSuggestions <= 0 {
		return fmt.Errorf("SUGGEST_MAX_RESULTS must be greater than 0")
	}
	if c.Suggest.BatchSize <= 0 || c.Suggest.BatchSize > 50 {
		return fmt.Errorf("SUGGEST_BATCH_SIZE must be between 1 and 50")
	}
	if c.Suggest.ExtensionBias < 0 || c.Suggest.ExtensionBias > 1 {
		return fmt.Errorf("SUGGEST_EXTENSION_BIAS must be between 0 and 1")
	}
	if !strings.HasPrefix(c.Suggest.DefaultExtension, ".") {
		return fmt.Errorf("SUGGEST_DEFAULT_EXTENSION must start with a dot")
	}
	if c.Suggest.RoundDelay < 0 {
		return fmt.Errorf("SUGGEST_ROUND_DELAY must not be negative")
	}

	return nil
}

// validateCache validates TTL cache configuration.
func (c *Config) validateCache() error {
	if c.Cache.AvailabilityTTL <= 0 {
		return fmt.Errorf("CACHE_AVAILABILITY_TTL must be greater than 0")
	}
	if c.Cache.ResponseTTL <= 0 {
		return fmt.Errorf("CACHE_RESPONSE_TTL must be greater than 0")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be greater than 0")
	}

	return nil
}

// validateBreaker validates circuit breaker configuration.
func (c *Config) validateBreaker() error {
	if c.Breaker.FailureThreshold <= 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be greater than 0")
	}
	if c.Breaker.Cooldown <= 0 {
		return fmt.Errorf("BREAKER_COOLDOWN must be greater than 0")
	}

	return nil
}

// validateThrottle validates the request gate configuration.
func (c *Config) validateThrottle() error {
	if c.Throttle.Limit <= 0 {
		return fmt.Errorf("THROTTLE_LIMIT must be greater than 0")
	}
	if c.Throttle.Window <= 0 {
		return fmt.Errorf("THROTTLE_WINDOW must be greater than 0")
	}

	return nil
}

// validateDatabase validates database configuration when one is configured.
func (c *Config) validateDatabase() error {
	if !c.HasDatabaseConfig() {
		return nil
	}

	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	validSSLMode := false
	for _, mode := range validSSLModes {
		if c.Database.SSLMode == mode {
			validSSLMode = true
			break
		}
	}
	if !validSSLMode {
		return fmt.Errorf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", "))
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be greater than 0")
	}
	if c.Database.MaxIdleConns <= 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 1 and DB_MAX_OPEN_CONNS")
	}

	return nil
}

// GetDSN returns the database connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.Name, c.Database.User, c.Database.Password, c.Database.SSLMode)
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logrus.Warnf("Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
