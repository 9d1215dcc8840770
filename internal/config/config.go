package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// DatabaseConfig contains Postgres connection configuration.
// DSN wins when set; otherwise it is assembled from the discrete fields.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn" envconfig:"DSN"`
	Host     string `yaml:"host" envconfig:"HOST" default:"localhost"`
	Port     int    `yaml:"port" envconfig:"PORT" default:"5432" validate:"min=1,max=65535"`
	Name     string `yaml:"name" envconfig:"NAME" default:"datastats"`
	User     string `yaml:"user" envconfig:"USER" default:"datastats"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"SSL_MODE" default:"disable"`
}

// ConnString returns a pgx-compatible connection string.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/datastats.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	GeographyFile string `yaml:"geography_file" envconfig:"GEOGRAPHY_FILE" default:"data-files/reg_dep_com.csv"`
	BatchDir      string `yaml:"batch_dir" envconfig:"BATCH_DIR" default:"data-files/batches"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig contains batch pipeline tuning knobs
type PipelineConfig struct {
	// ScrapsPerDay is how many scraper runs the reporting table is seeded for.
	ScrapsPerDay int `yaml:"scraps_per_day" envconfig:"SCRAPS_PER_DAY" default:"5" validate:"min=1"`
	// MaintenancePollAttempts bounds how long a run waits for the maintenance
	// gate before giving up.
	MaintenancePollAttempts int           `yaml:"maintenance_poll_attempts" envconfig:"MAINTENANCE_POLL_ATTEMPTS" default:"20" validate:"min=1"`
	MaintenancePollInterval time.Duration `yaml:"maintenance_poll_interval" envconfig:"MAINTENANCE_POLL_INTERVAL" default:"10s"`
}

// Load loads configuration from environment variables and an optional
// YAML file (DATASTATS_CONFIG_FILE, default config.yaml). File values fill
// in fields the environment left empty.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DATASTATS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Database.DSN == "" {
		envConfig.Database.DSN = fileConfig.Database.DSN
	}
	if envConfig.Database.Password == "" {
		envConfig.Database.Password = fileConfig.Database.Password
	}
	// envconfig has already applied struct defaults, so an empty-field
	// check cannot tell "unset" from "defaulted"; the variable's presence
	// in the environment is what decides.
	if os.Getenv("DATASTATS_PATHS_GEOGRAPHY_FILE") == "" && fileConfig.Paths.GeographyFile != "" {
		envConfig.Paths.GeographyFile = fileConfig.Paths.GeographyFile
	}
	if os.Getenv("DATASTATS_PATHS_BATCH_DIR") == "" && fileConfig.Paths.BatchDir != "" {
		envConfig.Paths.BatchDir = fileConfig.Paths.BatchDir
	}
	return envConfig
}

func (c *Config) validate() error {
	return validator.New().Struct(c)
}

func getConfigFilePath() string {
	if p := os.Getenv("DATASTATS_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}
