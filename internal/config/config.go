package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is read from the working directory when COUNCIL_CONFIG is unset
const DefaultFileName = "council_config.yaml"

// Config represents the application configuration
type Config struct {
	Env           string        `yaml:"env" validate:"required"`
	Port          string        `yaml:"port" validate:"required,numeric"`
	GinMode       string        `yaml:"ginMode" validate:"omitempty,oneof=debug release test"`
	DatabaseURL   string        `yaml:"databaseURL,omitempty"`
	DataPath      string        `yaml:"dataPath" validate:"required_without=DatabaseURL"`
	JWTSecret     string        `yaml:"jwtSecret" validate:"required,min=16"`
	TokenTTL      time.Duration `yaml:"tokenTTL"`
	AdminName     string        `yaml:"adminName,omitempty"`
	AdminEmail    string        `yaml:"adminEmail" validate:"omitempty,email"`
	AdminPassword string        `yaml:"adminPassword" validate:"required_with=AdminEmail"`
	LogDir        string        `yaml:"logDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads the file named by COUNCIL_CONFIG, or DefaultFileName if present,
// then applies environment overrides and defaults and validates the result.
// A missing default file is not an error; configuration can come from the environment alone.
func Load() (*Config, error) {
	path := os.Getenv("COUNCIL_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	cfg := &Config{}
	if err := readFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return finish(cfg)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := readFile(path, cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with any non-empty environment variable
func applyEnv(cfg *Config) error {
	overrides := map[string]*string{
		"APP_ENV":        &cfg.Env,
		"PORT":           &cfg.Port,
		"GIN_MODE":       &cfg.GinMode,
		"DATABASE_URL":   &cfg.DatabaseURL,
		"DATA_PATH":      &cfg.DataPath,
		"JWT_SECRET":     &cfg.JWTSecret,
		"ADMIN_NAME":     &cfg.AdminName,
		"ADMIN_EMAIL":    &cfg.AdminEmail,
		"ADMIN_PASSWORD": &cfg.AdminPassword,
		"LOG_DIR":        &cfg.LogDir,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.DatabaseURL == "" && cfg.DataPath == "" {
		cfg.DataPath = "council.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
