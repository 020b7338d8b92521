// Package config defines the sportsmind configuration and how it is loaded.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/llm"
	"github.com/abhisek/sportsmind/internal/questionnaire"
)

// Config contains process configuration.
type Config struct {
	// DB is the sqlite path. Empty means the default data directory.
	DB string `koanf:"db"`

	Log        LogConfig        `koanf:"log"`
	API        APIConfig        `koanf:"api"`
	Respondent RespondentConfig `koanf:"respondent"`
	Test       TestConfig       `koanf:"test"`
	LLM        llm.Config       `koanf:"llm"`
	Fixture    FixtureConfig    `koanf:"fixture"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// LogConfig controls the log sink.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// File is where the TUI logs. Empty means next to the database.
	File string `koanf:"file"`
}

// APIConfig points at the scoring service.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

// RespondentConfig preselects who is taking the test.
type RespondentConfig struct {
	// ID is the respondent UUID sent as user_id.
	ID   string `koanf:"id"`
	Role string `koanf:"role"`
}

// TestConfig tunes the questionnaire.
type TestConfig struct {
	AutoAdvanceMS int `koanf:"auto_advance_ms"`
}

// FixtureConfig configures the local scoring service.
type FixtureConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			BaseURL: catalog.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Test: TestConfig{
			AutoAdvanceMS: int(questionnaire.DefaultAutoAdvanceDelay / time.Millisecond),
		},
		LLM: llm.DefaultConfig(),
		Fixture: FixtureConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9464",
		},
	}
}

// AutoAdvanceDelay returns the configured auto-advance delay.
func (c *Config) AutoAdvanceDelay() time.Duration {
	return time.Duration(c.Test.AutoAdvanceMS) * time.Millisecond
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig)
	}

	if c.Respondent.ID != "" {
		if _, err := uuid.Parse(c.Respondent.ID); err != nil {
			return fmt.Errorf("%w: respondent.id: %w", ErrInvalidConfig, err)
		}
	}
	if c.Respondent.Role != "" {
		if _, err := battery.ParseRole(c.Respondent.Role); err != nil {
			return fmt.Errorf("%w: respondent.role: %w", ErrInvalidConfig, err)
		}
	}

	if c.Test.AutoAdvanceMS <= 0 {
		return fmt.Errorf("%w: test.auto_advance_ms must be positive", ErrInvalidConfig)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("%w: metrics.addr must not be empty", ErrInvalidConfig)
	}
	return nil
}
