package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/abhisek/sportsmind/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SPORTSMIND_CONFIG", "SPORTSMIND_DB", "SPORTSMIND_API__BASE_URL", "SPORTSMIND_API__TIMEOUT",
		"SPORTSMIND_TEST__AUTO_ADVANCE_MS", "SPORTSMIND_RESPONDENT__ID", "SPORTSMIND_LOG__LEVEL",
		"SPORTSMIND_LLM__PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sportsmind.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearEnv(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.API.BaseURL, convey.ShouldEqual, "http://localhost:8000")
				convey.So(cfg.API.Timeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.AutoAdvanceDelay(), convey.ShouldEqual, 1500*time.Millisecond)
				convey.So(cfg.LLM.Enabled(), convey.ShouldBeFalse)
				convey.So(cfg.Log.Level, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfig(t, `
api:
  base_url: https://scoring.example.com
  timeout: 5s
respondent:
  id: 6f1c2b9e-3d4a-4c5b-8e7f-1a2b3c4d5e6f
  role: coach
test:
  auto_advance_ms: 800
`)
			cfg, err := config.Load(path)

			convey.Convey("Then the file overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.API.BaseURL, convey.ShouldEqual, "https://scoring.example.com")
				convey.So(cfg.API.Timeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Respondent.Role, convey.ShouldEqual, "coach")
				convey.So(cfg.AutoAdvanceDelay(), convey.ShouldEqual, 800*time.Millisecond)
				convey.So(cfg.Fixture.Addr, convey.ShouldEqual, ":8000")
			})
		})

		convey.Convey("When env vars are set on top of a file", func() {
			path := writeConfig(t, "api:\n  base_url: https://file.example.com\n")
			t.Setenv("SPORTSMIND_CONFIG", path)
			t.Setenv("SPORTSMIND_API__BASE_URL", "https://env.example.com")
			t.Setenv("SPORTSMIND_TEST__AUTO_ADVANCE_MS", "2000")
			t.Setenv("SPORTSMIND_DB", "/tmp/sm.db")

			cfg, err := config.Load("")

			convey.Convey("Then env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.API.BaseURL, convey.ShouldEqual, "https://env.example.com")
				convey.So(cfg.Test.AutoAdvanceMS, convey.ShouldEqual, 2000)
				convey.So(cfg.DB, convey.ShouldEqual, "/tmp/sm.db")
			})
		})

		convey.Convey("When an API key is present in the environment", func() {
			t.Setenv("ANTHROPIC_API_KEY", "sk-test")
			cfg, err := config.Load("")

			convey.Convey("Then the provider is discovered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, "anthropic")
				convey.So(cfg.LLM.Anthropic.APIKey, convey.ShouldEqual, "sk-test")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			t.Setenv("SPORTSMIND_RESPONDENT__ID", "not-a-uuid")
			_, err := config.Load("")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it is valid", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the base URL has no scheme", func() {
			cfg.API.BaseURL = "localhost:8000/api"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the role is the wildcard target", func() {
			cfg.Respondent.Role = "all"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the LLM provider lacks a key", func() {
			cfg.LLM.Provider = "openai"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the auto-advance delay is zero", func() {
			cfg.Test.AutoAdvanceMS = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
