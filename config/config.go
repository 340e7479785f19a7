// Package config loads runtime settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageKey     string        `env:"FITTRACK_STORAGE_KEY" envDefault:"fittrack.v4"`
	ExportPrefix   string        `env:"FITTRACK_EXPORT_PREFIX" envDefault:"fittrack"`
	SessionTTL     time.Duration `env:"FITTRACK_SESSION_TTL" envDefault:"30m"`
	MaxSessions    int           `env:"FITTRACK_MAX_SESSIONS" envDefault:"1024"`
	StorageQuota   int           `env:"FITTRACK_STORAGE_QUOTA" envDefault:"5242880"`
	ChartURL       string        `env:"FITTRACK_CHART_URL" envDefault:"https://cdn.jsdelivr.net/npm/chart.js"`
	ChartTimeout   time.Duration `env:"FITTRACK_CHART_TIMEOUT" envDefault:"3s"`
	CORSOrigins    []string      `env:"FITTRACK_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	CSRFKey        string        `env:"FITTRACK_CSRF_KEY"`
	SecureCookies  bool          `env:"FITTRACK_SECURE_COOKIES" envDefault:"false"`
	ShutdownPeriod time.Duration `env:"FITTRACK_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads envFiles (a missing file is not an error) and then parses the
// environment into a Config.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.MaxSessions < 0 {
		errs = append(errs, errors.New("FITTRACK_MAX_SESSIONS must not be negative"))
	}
	if c.ChartTimeout <= 0 {
		errs = append(errs, errors.New("FITTRACK_CHART_TIMEOUT must be positive"))
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		errs = append(errs, errors.New("FITTRACK_CSRF_KEY must be 32 bytes"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
