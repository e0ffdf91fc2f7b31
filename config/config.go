package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress      string `mapstructure:"SERVER_ADDRESS"`       // e.g., ":8000"
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"` // comma separated, "*" allows all
	AppEnv             string `mapstructure:"APP_ENV"`              // "production" switches gin to release mode
	LogLevel           string `mapstructure:"LOG_LEVEL"`            // logrus level name

	// AI Configuration
	OpenAIKey            string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `mapstructure:"OPENAI_BASE_URL"` // empty means the public OpenAI endpoint
	ModelName            string        `mapstructure:"MODEL_NAME"`
	LLMMaxAttempts       int           `mapstructure:"LLM_MAX_ATTEMPTS"`
	LLMRetryDelay        time.Duration `mapstructure:"LLM_RETRY_DELAY"`
	LLMRequestsPerMinute int           `mapstructure:"LLM_REQUESTS_PER_MINUTE"` // 0 disables the client-side limiter

	// Synthetic Query Pipeline
	DimensionRequests    int    `mapstructure:"DIMENSION_REQUESTS"`
	NumTuplesToGenerate  int    `mapstructure:"NUM_TUPLES_TO_GENERATE"`
	NumQueriesPerTuple   int    `mapstructure:"NUM_QUERIES_PER_TUPLE"`
	MaxWorkers           int    `mapstructure:"MAX_WORKERS"`
	SyntheticQueriesPath string `mapstructure:"SYNTHETIC_QUERIES_PATH"` // relative paths resolve against the working directory

	// Batch Recipe Generation
	GeneratedRecipesPath string `mapstructure:"GENERATED_RECIPES_PATH"` // relative paths resolve against the working directory
	RecipeQueryLimit     int    `mapstructure:"RECIPE_QUERY_LIMIT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":          ":8000",
	"CORS_ALLOWED_ORIGINS":    "*",
	"APP_ENV":                 "development",
	"LOG_LEVEL":               "info",
	"OPENAI_API_KEY":          "",
	"OPENAI_BASE_URL":         "",
	"MODEL_NAME":              "gpt-4o-mini",
	"LLM_MAX_ATTEMPTS":        3,
	"LLM_RETRY_DELAY":         time.Second,
	"LLM_REQUESTS_PER_MINUTE": 0,
	"DIMENSION_REQUESTS":      5,
	"NUM_TUPLES_TO_GENERATE":  20,
	"NUM_QUERIES_PER_TUPLE":   5,
	"MAX_WORKERS":             5,
	"SYNTHETIC_QUERIES_PATH":  "data/synthetic_queries_for_analysis.csv",
	"GENERATED_RECIPES_PATH":  "data/generated_recipes.csv",
	"RECIPE_QUERY_LIMIT":      40,
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")

	// Every key needs a default so AutomaticEnv can bind it during Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Infof("Using configuration file: %s", v.ConfigFileUsed())
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err = config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate reports every out-of-range setting at once. A missing API key is not
// an error here: each entry point decides whether it can run without one.
func (c Config) Validate() error {
	var err error
	positive := map[string]int{
		"LLM_MAX_ATTEMPTS":       c.LLMMaxAttempts,
		"DIMENSION_REQUESTS":     c.DimensionRequests,
		"NUM_TUPLES_TO_GENERATE": c.NumTuplesToGenerate,
		"NUM_QUERIES_PER_TUPLE":  c.NumQueriesPerTuple,
		"MAX_WORKERS":            c.MaxWorkers,
		"RECIPE_QUERY_LIMIT":     c.RecipeQueryLimit,
	}
	for key, value := range positive {
		if value < 1 {
			err = multierr.Append(err, fmt.Errorf("%s must be at least 1, got %d", key, value))
		}
	}
	if c.LLMRetryDelay < 0 {
		err = multierr.Append(err, fmt.Errorf("LLM_RETRY_DELAY must not be negative, got %s", c.LLMRetryDelay))
	}
	if c.LLMRequestsPerMinute < 0 {
		err = multierr.Append(err, fmt.Errorf("LLM_REQUESTS_PER_MINUTE must not be negative, got %d", c.LLMRequestsPerMinute))
	}
	if strings.TrimSpace(c.ModelName) == "" {
		err = multierr.Append(err, fmt.Errorf("MODEL_NAME must not be empty"))
	}
	return err
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into its entries.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// LoadDotEnv loads variables from a .env file in the working directory. Values
// already present in the environment win. A missing file is not an error.
func LoadDotEnv(filenames ...string) {
	err := godotenv.Load(filenames...)
	switch {
	case err == nil:
		log.Debug("Loaded environment variables from .env file.")
	case os.IsNotExist(err):
		log.Debug(".env file not found, relying on system environment variables.")
	default:
		log.Warnf("Error loading .env file: %v", err)
	}
}

// SetupLogging configures the global logrus logger.
func SetupLogging(level string) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, falling back to info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
