package config

import (
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"rental-pipeline/models"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RENTALS"

// Validation policies.
const (
	PolicyWarn = "warn"
	PolicyFail = "fail"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TestSize         float64 `envconfig:"TEST_SIZE" default:"0.2" validate:"gt=0,lt=1"`
	Seed             int64   `envconfig:"SEED" default:"123"`
	ValidationPolicy string  `envconfig:"VALIDATION_POLICY" default:"warn" validate:"oneof=warn fail"`
	RulesFile        string  `envconfig:"RULES_FILE"`
	CSVDelimiter     string  `envconfig:"CSV_DELIMITER" default:"," validate:"required"`
	XLSXSheet        string  `envconfig:"XLSX_SHEET"`
	LogLevel         string  `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	PlotSampleSize   int     `envconfig:"PLOT_SAMPLE_SIZE" default:"5000" validate:"gt=0"`
	SourceTable      string  `envconfig:"SOURCE_TABLE" default:"raw_listings" validate:"required"`
	MaxRetries       int     `envconfig:"MAX_RETRIES" default:"3" validate:"gte=1"`
	MaxIterations    int     `envconfig:"MAX_ITERATIONS" default:"1000" validate:"gt=0"`

	Outputs OutputNames    `ignored:"true"`
	Rules   models.RuleSet `ignored:"true"`
}

// OutputNames are the artifact file names written by the clean step.
type OutputNames struct {
	XTrain    string
	XTest     string
	YTrain    string
	YTest     string
	FullClean string
}

// DefaultOutputNames returns the canonical artifact names.
func DefaultOutputNames() OutputNames {
	return OutputNames{
		XTrain:    "X_train.csv",
		XTest:     "X_test.csv",
		YTrain:    "y_train.csv",
		YTest:     "y_test.csv",
		FullClean: "full_cleaned_data.csv",
	}
}

// Load reads the .env file, the environment and the optional rules file and
// returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	cfg.Outputs = DefaultOutputNames()

	rules, err := LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints on the config and its rule set.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return fmt.Errorf("config: CSV delimiter %q must be a single character", c.CSVDelimiter)
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// FailOnViolations reports whether validation failures abort the run.
func (c *Config) FailOnViolations() bool {
	return c.ValidationPolicy == PolicyFail
}
