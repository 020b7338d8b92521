package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List local submission attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		outcome, _ := cmd.Flags().GetString("outcome")

		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySubmissions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query submissions: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No submissions recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-7s  %-8s  %5s  %-8s  %s\n",
			"ID", "Timestamp", "Role", "Outcome", "Ms", "Answers", "Detail")
		fmt.Println(strings.Repeat("─", 90))
		for _, e := range events {
			if outcome != "" && e.Outcome != outcome {
				continue
			}
			detail := e.ResultID
			if e.ErrorMessage != "" {
				detail = truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-7s  %-8s  %5d  %-8d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Role,
				e.Outcome,
				e.LatencyMs,
				e.AnswerCount,
				detail)
		}
		return nil
	},
}

func init() {
	submissionsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	submissionsCmd.Flags().String("outcome", "", "Filter by outcome: accepted, rejected or failed")
}
