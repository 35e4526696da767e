// Package config loads gatecheck configuration from defaults, an optional
// config file, a .env file and GATECHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harrylevesque/gatecheck/internal/utils"
)

const (
	envPrefix = "GATECHECK"
	envFile   = ".env"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Scanner ScannerConfig `mapstructure:"scanner"`
	Server  ServerConfig  `mapstructure:"server"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig controls requests to the ticketing backend.
type APIConfig struct {
	// BaseURL prefills login when nothing is stored yet.
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	// CADir holds extra PEM certificates trusted in addition to the system pool.
	CADir string `mapstructure:"ca_dir"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ScannerConfig struct {
	// Debounce suppresses identical payloads read within this window.
	Debounce time.Duration `mapstructure:"debounce"`
}

// ServerConfig is used by the staging backend only.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Fixtures        string        `mapstructure:"fixtures"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Load builds the configuration. path may be empty, in which case only
// defaults, .env and the environment are consulted.
func Load(path string) (*Config, error) {
	loadEnvFile(envFile)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile copies .env entries into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) {
	envMap, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, val := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, val)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.user_agent", "gatecheck/1.0")
	v.SetDefault("api.ca_dir", "")

	v.SetDefault("store.backend", StoreFile)
	v.SetDefault("store.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	v.SetDefault("scanner.debounce", 2*time.Second)

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.fixtures", "fixtures.yaml")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("output.format", OutputTable)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"api.base_url",
		"api.timeout",
		"api.user_agent",
		"api.ca_dir",
		"store.backend",
		"store.path",
		"logging.level",
		"logging.file",
		"scanner.debounce",
		"server.addr",
		"server.fixtures",
		"server.shutdown_timeout",
		"output.format",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func (c *Config) resolve() {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.Store.Path == "" && c.Store.Backend != StoreMemory {
		c.Store.Path = utils.DefaultStorePath(c.Store.Backend)
	}
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid store.backend: %s (must be file, sqlite or memory)", c.Store.Backend)
	}
	switch c.Output.Format {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output.format: %s (must be table, json or yaml)", c.Output.Format)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Scanner.Debounce < 0 {
		return errors.New("scanner.debounce must not be negative")
	}
	return nil
}
