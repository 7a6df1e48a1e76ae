package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

// ConfigPathEnvVar overrides the config file lookup.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Logging  LoggingConfig  `koanf:"logging"`
	Admin    AdminConfig    `koanf:"admin"`
}

type ServerConfig struct {
	Port        int    `koanf:"port"`
	Mode        string `koanf:"mode"`
	CORSOrigins string `koanf:"cors_origins"`
	// AuthRateLimit is the per-IP budget of auth requests per minute. Zero
	// disables limiting.
	AuthRateLimit int `koanf:"auth_rate_limit"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
	Path     string `koanf:"path"`
}

type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	Expiration time.Duration `koanf:"expiration"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AdminConfig describes an optional account created at startup when no user
// with the same email exists.
type AdminConfig struct {
	Username string `koanf:"username"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			Mode:          "debug",
			CORSOrigins:   "*",
			AuthRateLimit: 20,
		},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "password",
			Name:     "recipe_share",
			SSLMode:  "disable",
			Path:     "recipe_share.db",
		},
		JWT: JWTConfig{
			Secret:     defaultJWTSecret,
			Expiration: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers defaults, an optional YAML file and the environment, in that
// order of increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":            "server.port",
	"gin_mode":        "server.mode",
	"cors_origins":    "server.cors_origins",
	"auth_rate_limit": "server.auth_rate_limit",
	"db_driver":       "database.driver",
	"db_host":         "database.host",
	"db_port":         "database.port",
	"db_user":         "database.user",
	"db_password":     "database.password",
	"db_name":         "database.name",
	"db_sslmode":      "database.sslmode",
	"sqlite_path":     "database.path",
	"jwt_secret":      "jwt.secret",
	"jwt_expiration":  "jwt.expiration",
	"log_level":       "logging.level",
	"log_format":      "logging.format",
	"admin_username":  "admin.username",
	"admin_email":     "admin.email",
	"admin_password":  "admin.password",
}

// envTransformFunc maps known variables to config paths. Anything else is
// dropped so unrelated environment does not leak into the config tree.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported gin mode %q", c.Server.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.AuthRateLimit < 0 {
		return fmt.Errorf("invalid auth rate limit %d", c.Server.AuthRateLimit)
	}
	if c.Server.Mode == "release" && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}
