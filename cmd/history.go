package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past results from the scoring service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		sortBy, _ := cmd.Flags().GetString("sort")
		period, _ := cmd.Flags().GetString("period")

		ctx := cmd.Context()
		h, err := newCatalog(cfg, logger.Named("catalog")).History(ctx, catalog.HistoryQuery{
			Limit:  limit,
			Offset: offset,
			SortBy: sortBy,
			Period: period,
		})
		if err != nil {
			return describedError(err)
		}

		if len(h.Results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-8s  %-12s  %6s\n", "Result", "Date", "Role", "Type", "Esteem")
		fmt.Println(strings.Repeat("─", 86))
		for _, r := range h.Results {
			fmt.Printf("%-36s  %-16s  %-8s  %-12s  %6.1f\n",
				r.ResultID,
				r.TestDate.Local().Format("2006-01-02 15:04"),
				r.TargetSelection,
				truncate(r.AthleteType, 12),
				r.SelfEsteemTotal)
		}
		fmt.Printf("\n%d-%d of %d\n", offset+1, offset+len(h.Results), h.TotalCount)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of results to show")
	historyCmd.Flags().Int("offset", 0, "Number of results to skip")
	historyCmd.Flags().String("sort", "date", "Sort order: date or score")
	historyCmd.Flags().String("period", "all", "Period: all, 1month, 3months or 6months")
}

// describedError turns a pipeline error into the text the TUI would show.
func describedError(err error) error {
	m := submission.Describe(err)
	msg := m.Title
	if len(m.Lines) > 0 {
		msg += ": " + strings.Join(m.Lines, " ")
	}
	return fmt.Errorf("%s", msg)
}
