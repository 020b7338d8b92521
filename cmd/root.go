package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/config"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sportsmind",
	Short: "Sports psychology questionnaire in the terminal",
	Long: "SportsMind walks an athlete, a parent or a coach through the 99-question " +
		"sports psychology battery and shows the scored profile.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// ExecuteContext runs the root command; ctx is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPORTSMIND_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides SPORTSMIND_CONFIG)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the layered config and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	return cfg, nil
}

// setupCLI loads the config and points the global logger at stderr.
func setupCLI(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Options{Writer: os.Stderr, Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns cfg.DB when set, then SPORTSMIND_DB, then the
// default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func newCatalog(cfg *config.Config, log logger.Logger) *catalog.Client {
	return catalog.New(cfg.API.BaseURL,
		catalog.WithToken(cfg.API.Token),
		catalog.WithTimeout(cfg.API.Timeout),
		catalog.WithLogger(log))
}
