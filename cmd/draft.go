package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sportsmind/internal/battery"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or discard saved drafts",
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		drafts, err := s.Drafts().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list drafts: %w", err)
		}
		if len(drafts) == 0 {
			fmt.Println("No drafts saved.")
			return nil
		}

		fmt.Printf("%-8s  %8s  %s\n", "Role", "Answered", "Saved")
		fmt.Println(strings.Repeat("─", 40))
		for _, d := range drafts {
			fmt.Printf("%-8s  %5d/%-2d  %s\n", d.Role, d.AnswerCount, battery.BatterySize,
				d.SavedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear [role]",
	Short: "Discard the draft of one role, or every draft",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if len(args) == 0 {
			if err := s.Drafts().ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("All drafts cleared.")
			return nil
		}

		role, err := battery.ParseRole(args[0])
		if err != nil {
			return err
		}
		if err := s.Drafts().Clear(ctx, role); err != nil {
			return err
		}
		fmt.Printf("Draft for %s cleared.\n", role.DisplayName())
		return nil
	},
}

func init() {
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftClearCmd)
}
