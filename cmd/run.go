package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/app"
	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/config"
	"github.com/abhisek/sportsmind/internal/insight"
	"github.com/abhisek/sportsmind/internal/llm"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/pkg/logger"
	"github.com/abhisek/sportsmind/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the questionnaire (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides metrics.addr)")
	runCmd.Flags().String("role", "", "Respondent role: player, father, mother, coach or adult")
}

// runApp opens the store, builds the screen environment, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if r, _ := cmd.Flags().GetString("role"); r != "" {
		cfg.Respondent.Role = r
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.Metrics.Enabled, cfg.Metrics.Addr = true, addr
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal; logs go to a file.
	logFile, err := resolveLogFile(cfg)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{File: logFile, Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("tui")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Warn(ctx, "metrics endpoint stopped", logger.String("addr", cfg.Metrics.Addr), logger.Error(err))
			}
		}()
	}

	e, err := buildEnv(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	log.Info(ctx, "starting",
		logger.String("api", cfg.API.BaseURL),
		logger.String("role", string(e.Role)),
		logger.Bool("insight", e.Insight.Enabled()))
	return app.Run(ctx, e)
}

func buildEnv(ctx context.Context, cfg *config.Config, st *store.Store, log logger.Logger) (env.Env, error) {
	events := st.EventRepo()
	drafts := st.Drafts()
	cat := newCatalog(cfg, log.Named("catalog"))

	e := env.Env{
		Catalog: cat,
		Submitter: submission.NewSubmitter(cat,
			submission.WithDrafts(drafts),
			submission.WithEvents(events),
			submission.WithLogger(log.Named("submission"))),
		Drafts:         drafts,
		Metrics:        metrics.Global(),
		Logger:         log,
		Index:          battery.DefaultIndex(),
		Respondent:     cfg.Respondent.ID,
		AutoAdvance:    cfg.AutoAdvanceDelay(),
		RequestTimeout: cfg.API.Timeout,
	}
	if cfg.Respondent.Role != "" {
		role, err := battery.ParseRole(cfg.Respondent.Role)
		if err != nil {
			return env.Env{}, fmt.Errorf("respondent role: %w", err)
		}
		e.Role = role
	}

	// Coaching notes are optional; the app works without a provider.
	provider, err := llm.New(ctx, cfg.LLM, events, log.Named("llm"))
	switch {
	case errors.Is(err, llm.ErrDisabled):
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not available:", err)
		fmt.Fprintln(os.Stderr, "Coaching notes will be unavailable.")
	default:
		e.Insight = insight.NewService(provider, insight.DefaultConfig())
	}
	return e, nil
}

func resolveLogFile(cfg *config.Config) (string, error) {
	if cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sportsmind.log"), nil
}
