// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL    = "http://localhost:5000"
	DefaultPollInterval = 30 * time.Second
	DefaultLogFile      = "kitchen_table.log"
	DefaultLogLevel     = "INFO"
)

type Config struct {
	ServerURL         string
	DatabaseURL       string
	DatabaseType      string
	PollInterval      time.Duration
	RequestsPerSecond float64
	LogLevel          string
	LogFile           string
	Route             string
	Once              bool
	ConfigFile        string
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	ServerURL         string  `yaml:"server_url"`
	DatabaseURL       string  `yaml:"database_url"`
	DatabaseType      string  `yaml:"database_type"`
	PollInterval      string  `yaml:"poll_interval"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	LogLevel          string  `yaml:"log_level"`
	LogFile           string  `yaml:"log_file"`
}

// ParseFlags builds the client configuration.
// Precedence: CLI flags, environment (including .env), YAML file, defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var pollInterval string

	// A missing .env is normal
	_ = godotenv.Load()

	fs := flag.NewFlagSet("kitchen-table", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", "", "Kitchen Table server URL")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Session store URL (sqlite path or postgres DSN)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Session store type (sqlite or postgres)")
	fs.StringVar(&pollInterval, "poll", "", "Poll interval for new responses (e.g. 30s)")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", 0, "Client-side request limit, 0 for none")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file path")
	fs.StringVar(&cfg.Route, "r", "/", "Start route (e.g. /table, /table/settings)")
	fs.BoolVar(&cfg.Once, "once", false, "Render the start route once to stdout and exit")
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("KITCHEN_TABLE_CONFIG")
	}
	var file fileConfig
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.ServerURL = firstNonEmpty(cfg.ServerURL, os.Getenv("KITCHEN_TABLE_URL"), file.ServerURL, DefaultServerURL)
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if u, err := url.Parse(cfg.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, errors.New("invalid server URL (use -s or KITCHEN_TABLE_URL)")
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL)
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("locate home directory: %w", err)
		}
		cfg.DatabaseURL = filepath.Join(home, ".kitchentable", "session.db")
	}

	pollInterval = firstNonEmpty(pollInterval, os.Getenv("POLL_INTERVAL"), file.PollInterval)
	if pollInterval == "" {
		cfg.PollInterval = DefaultPollInterval
	} else {
		d, err := time.ParseDuration(pollInterval)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid poll interval")
		}
		cfg.PollInterval = d
	}

	if cfg.RequestsPerSecond == 0 {
		if rps := os.Getenv("REQUESTS_PER_SECOND"); rps != "" {
			v, err := strconv.ParseFloat(rps, 64)
			if err != nil {
				return Config{}, errors.New("invalid REQUESTS_PER_SECOND env variable")
			}
			cfg.RequestsPerSecond = v
		} else {
			cfg.RequestsPerSecond = file.RequestsPerSecond
		}
	}
	if cfg.RequestsPerSecond < 0 {
		return Config{}, errors.New("requests per second cannot be negative")
	}

	cfg.LogLevel = strings.ToUpper(firstNonEmpty(cfg.LogLevel, os.Getenv("LOG_LEVEL"), file.LogLevel, DefaultLogLevel))
	cfg.LogFile = firstNonEmpty(cfg.LogFile, os.Getenv("LOG_FILE"), file.LogFile, DefaultLogFile)

	if !strings.HasPrefix(cfg.Route, "/") {
		return Config{}, errors.New("start route must begin with /")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
