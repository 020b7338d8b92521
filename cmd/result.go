package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/sportsmind/pkg/logger"
)

var resultCmd = &cobra.Command{
	Use:   "result <id>",
	Short: "Export one result as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "yaml" && format != "json" {
			return fmt.Errorf("invalid format %q: must be yaml or json", format)
		}

		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		r, err := newCatalog(cfg, logger.Named("catalog")).Result(cmd.Context(), args[0])
		if err != nil {
			return describedError(err)
		}

		if format == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(r)
	},
}

func init() {
	resultCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
}
