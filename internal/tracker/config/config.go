// Package config loads the tracker service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/team16/easytracker/internal/tracker/auth"
	"github.com/team16/easytracker/internal/tracker/db"
	"gopkg.in/yaml.v3"
)

const (
	// PathEnv names the environment variable that points at the config file.
	PathEnv = "EASYTRACKER_CONFIG"
	// SecretEnv overrides JWT_SECRET from the file.
	SecretEnv = "JWT_SECRET"
)

const defaultCacheTTL = 5 * time.Minute

// DefaultPath is used when PathEnv is unset.
var DefaultPath = filepath.Join("internal", "tracker", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	GRPCPort         int           `yaml:"GRPC_PORT"`
	HTTPPort         int           `yaml:"HTTP_PORT"`
	DBDriver         string        `yaml:"DB_DRIVER"`
	DBPath           string        `yaml:"DB_PATH"`
	DBHost           string        `yaml:"DB_HOST"`
	DBPort           int           `yaml:"DB_PORT"`
	DBUser           string        `yaml:"DB_USER"`
	DBPassword       string        `yaml:"DB_PASSWORD"`
	DBName           string        `yaml:"DB_NAME"`
	DBSSLMode        string        `yaml:"DB_SSLMODE"`
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT"`
	KafkaBrokers     []string      `yaml:"KAFKA_BROKERS"`
	Topic            string        `yaml:"TOPIC"`
	JWTSecret        string        `yaml:"JWT_SECRET"`
	TokenTTL         time.Duration `yaml:"TOKEN_TTL"`
	PasswordHasher   string        `yaml:"PASSWORD_HASHER"`
	CacheTTL         time.Duration `yaml:"CACHE_TTL"` // 0 or less disables the read cache
}

// Load reads the file named by EASYTRACKER_CONFIG, or DefaultPath.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile parses a YAML config file, applies defaults and the environment
// override for the JWT secret, and validates the result.
func LoadFile(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// An explicit CACHE_TTL of 0 disables caching, so only a missing key
	// gets the default.
	var explicit struct {
		CacheTTL *time.Duration `yaml:"CACHE_TTL"`
	}
	if err := yaml.Unmarshal(file, &explicit); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if secret := os.Getenv(SecretEnv); secret != "" {
		cfg.JWTSecret = secret
	}
	cfg.applyDefaults()
	if explicit.CacheTTL == nil {
		cfg.CacheTTL = defaultCacheTTL
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GRPCPort == 0 {
		c.GRPCPort = 50051
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if c.DBDriver == "" {
		c.DBDriver = db.DriverSQLite
	}
	if c.DBDriver == db.DriverSQLite && c.DBPath == "" {
		c.DBPath = "easytracker.db"
	}
	if c.DBConnectTimeout == 0 {
		c.DBConnectTimeout = 30 * time.Second
	}
	if c.Topic == "" {
		c.Topic = "easytracker.events"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.PasswordHasher == "" {
		c.PasswordHasher = auth.HasherBcrypt
	}
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	switch c.PasswordHasher {
	case auth.HasherPlain, auth.HasherBcrypt:
	default:
		return fmt.Errorf("PASSWORD_HASHER: unsupported hasher %q", c.PasswordHasher)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

// Database converts the config into repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:         c.DBDriver,
		Path:           c.DBPath,
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		ConnectTimeout: c.DBConnectTimeout,
	}
}
