package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration of a simulation run.
type Config struct {
	LogLevel   string `yaml:"log_level"`
	ShowBook   bool   `yaml:"show_book"`
	EchoTrades bool   `yaml:"echo_trades"`
	BookDegree int    `yaml:"book_degree"`
}

func defaults() *Config {
	return &Config{
		LogLevel:   "info",
		ShowBook:   true,
		EchoTrades: true,
		BookDegree: 32,
	}
}

// Load builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE (if set), then environment variables. Environment
// variables win. It returns an error for any invalid value.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = getStr("LOG_LEVEL", cfg.LogLevel)
	if !isValidLogLevel(cfg.LogLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	var err error
	if cfg.ShowBook, err = getBool("SHOW_BOOK", cfg.ShowBook); err != nil {
		return nil, fmt.Errorf("invalid SHOW_BOOK: %w", err)
	}
	if cfg.EchoTrades, err = getBool("ECHO_TRADES", cfg.EchoTrades); err != nil {
		return nil, fmt.Errorf("invalid ECHO_TRADES: %w", err)
	}
	if cfg.BookDegree, err = getInt("BOOK_DEGREE", cfg.BookDegree); err != nil {
		return nil, fmt.Errorf("invalid BOOK_DEGREE: %w", err)
	}
	if cfg.BookDegree < 2 {
		return nil, fmt.Errorf("invalid BOOK_DEGREE: %d, must be >= 2", cfg.BookDegree)
	}

	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. ${VAR} references in
// the file are expanded from the environment first.
func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	b = []byte(os.ExpandEnv(string(b)))
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
