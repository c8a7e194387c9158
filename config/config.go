package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	Logger LoggerConfig

	// Client app
	App       AppConfig
	Identity  IdentityConfig
	Docstore  DocstoreConfig
	Directory DirectoryConfig

	// Local backend
	Emulator EmulatorConfig
}

type EnvironmentConfig struct {
	Name string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type AppConfig struct {
	// StrictWrites makes updates and deletes of tasks without an id
	// surface an error instead of silently doing nothing.
	StrictWrites bool

	// SessionFile overrides where the signed-in session is cached.
	// Empty picks the user config dir.
	SessionFile string
}

type IdentityConfig struct {
	URL string
}

type DocstoreConfig struct {
	URL          string
	Collection   string
	WatchTimeout time.Duration
	PollInterval time.Duration
}

type DirectoryConfig struct {
	URL string
}

type EmulatorConfig struct {
	Port            int
	Mode            string
	JWTSecret       string
	TokenTTL        time.Duration
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/taskdeck/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/taskdeck/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Logger
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// App
	cfg.App.StrictWrites = viper.GetBool("app.strict_writes")
	cfg.App.SessionFile = viper.GetString("app.session_file")

	// Backends
	cfg.Identity.URL = viper.GetString("identity.url")
	cfg.Docstore.URL = viper.GetString("docstore.url")
	cfg.Docstore.Collection = viper.GetString("docstore.collection")
	cfg.Docstore.WatchTimeout = viper.GetDuration("docstore.watch_timeout")
	cfg.Docstore.PollInterval = viper.GetDuration("docstore.poll_interval")
	cfg.Directory.URL = viper.GetString("directory.url")

	// Flat env overrides for the common knobs
	if identityURL := viper.GetString("identity_url"); identityURL != "" {
		cfg.Identity.URL = identityURL
	}
	if docstoreURL := viper.GetString("docstore_url"); docstoreURL != "" {
		cfg.Docstore.URL = docstoreURL
	}
	if directoryURL := viper.GetString("directory_url"); directoryURL != "" {
		cfg.Directory.URL = directoryURL
	}

	// Emulator
	cfg.Emulator.Port = viper.GetInt("emulator.port")
	cfg.Emulator.Mode = viper.GetString("emulator.mode")
	cfg.Emulator.JWTSecret = viper.GetString("emulator.jwt_secret")
	cfg.Emulator.TokenTTL = viper.GetDuration("emulator.token_ttl")
	cfg.Emulator.RateLimitPerMin = viper.GetInt("emulator.rate_limit_per_min")
	if secret := viper.GetString("emulator_jwt_secret"); secret != "" {
		cfg.Emulator.JWTSecret = secret
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("app.strict_writes", false)

	viper.SetDefault("identity.url", "http://localhost:9099")
	viper.SetDefault("docstore.url", "http://localhost:9099")
	viper.SetDefault("docstore.collection", "tasks")
	viper.SetDefault("docstore.watch_timeout", "25s")
	viper.SetDefault("docstore.poll_interval", "1s")
	viper.SetDefault("directory.url", "https://jsonplaceholder.typicode.com")

	viper.SetDefault("emulator.port", 9099)
	viper.SetDefault("emulator.mode", "release")
	viper.SetDefault("emulator.jwt_secret", "dev-only-secret")
	viper.SetDefault("emulator.token_ttl", "1h")
	viper.SetDefault("emulator.rate_limit_per_min", 0)
}
