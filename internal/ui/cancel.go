package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [meeting-id]",
		Short: "Cancel a scheduled meeting",
		Long: `Cancel a meeting by its id.

Cancelled meetings stay on the board with a strikethrough and no longer
block their room or specialists.

Example:
  careboard cancel 6f1c2d3e-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.repo.CancelMeeting(ctx, args[0]); err != nil {
				return fmt.Errorf("cancelling meeting: %w", err)
			}

			fmt.Printf("Cancelled meeting %s\n", args[0])
			return nil
		},
	}
}
