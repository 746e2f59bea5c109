package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB, used when CALENDAR_BACKEND is "mongo".
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration for the async job API.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisOutcomeDB    int    `mapstructure:"REDIS_OUTCOME_DB"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	AsyncEnabled      bool   `mapstructure:"ASYNC_ENABLED"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`
	OutcomeTTLMinutes int    `mapstructure:"OUTCOME_TTL_MINUTES"`

	// Extraction oracle.
	LLMProvider          string `mapstructure:"LLM_PROVIDER"`
	GeminiAPIKey         string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel          string `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey         string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL        string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel          string `mapstructure:"OPENAI_MODEL"`
	OracleTimeoutSeconds int    `mapstructure:"ORACLE_TIMEOUT_SECONDS"`

	// Calendar store.
	CalendarBackend        string `mapstructure:"CALENDAR_BACKEND"`
	CalendarID             string `mapstructure:"CALENDAR_ID"`
	GoogleCredentialsFile  string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCredentialsJSON  string `mapstructure:"GOOGLE_CREDENTIALS_JSON"`
	CalendarTimeoutSeconds int    `mapstructure:"CALENDAR_TIMEOUT_SECONDS"`

	// Scheduling policy.
	DefaultTimezone        string `mapstructure:"DEFAULT_TIMEZONE"`
	DefaultDurationMinutes int    `mapstructure:"DEFAULT_DURATION_MINUTES"`
	SearchDaysAhead        int    `mapstructure:"SEARCH_DAYS_AHEAD"`
	BusinessHourStart      int    `mapstructure:"BUSINESS_HOUR_START"`
	BusinessHourEnd        int    `mapstructure:"BUSINESS_HOUR_END"`
	PrecheckEnabled        bool   `mapstructure:"PRECHECK_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	viper.Reset()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "apptbot")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_OUTCOME_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("ASYNC_ENABLED", false)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("OUTCOME_TTL_MINUTES", 30)
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("ORACLE_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CALENDAR_BACKEND", "google")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_JSON", "")
	viper.SetDefault("CALENDAR_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DEFAULT_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DEFAULT_DURATION_MINUTES", 60)
	viper.SetDefault("SEARCH_DAYS_AHEAD", 7)
	viper.SetDefault("BUSINESS_HOUR_START", 9)
	viper.SetDefault("BUSINESS_HOUR_END", 17)
	viper.SetDefault("PRECHECK_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// Validate checks the settings that the selected oracle and calendar backend depend on.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return errors.New("LLM_PROVIDER must be one of gemini, openai")
	}

	switch c.CalendarBackend {
	case "google":
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			return errors.New("GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON is required for the google backend")
		}
	case "mongo":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the mongo backend")
		}
	case "memory":
	default:
		return errors.New("CALENDAR_BACKEND must be one of google, mongo, memory")
	}

	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return errors.New("DEFAULT_TIMEZONE must be a valid IANA zone name")
	}
	if c.DefaultDurationMinutes <= 0 {
		return errors.New("DEFAULT_DURATION_MINUTES must be positive")
	}
	if c.SearchDaysAhead <= 0 {
		return errors.New("SEARCH_DAYS_AHEAD must be positive")
	}
	if c.BusinessHourStart < 0 || c.BusinessHourEnd > 23 || c.BusinessHourStart > c.BusinessHourEnd {
		return errors.New("BUSINESS_HOUR_START..BUSINESS_HOUR_END must be a range within 0..23")
	}
	return nil
}

// DefaultLocation returns the configured default zone, falling back to UTC.
func (c *Config) DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutSeconds) * time.Second
}

func (c *Config) CalendarTimeout() time.Duration {
	return time.Duration(c.CalendarTimeoutSeconds) * time.Second
}

func (c *Config) OutcomeTTL() time.Duration {
	return time.Duration(c.OutcomeTTLMinutes) * time.Minute
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
