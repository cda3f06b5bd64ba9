package ui

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"careboard/internal/schedule"
)

func (a *App) specialistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specialists",
		Short: "Manage specialists",
	}
	cmd.AddCommand(a.specialistsListCmd())
	cmd.AddCommand(a.specialistsAddCmd())
	return cmd
}

func (a *App) specialistsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all specialists",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			specialists, err := a.repo.ListSpecialists(context.Background())
			if err != nil {
				return fmt.Errorf("listing specialists: %w", err)
			}
			if len(specialists) == 0 {
				fmt.Println("No specialists configured. Add one with 'careboard specialists add'.")
				return nil
			}
			for _, sp := range specialists {
				fmt.Printf("  %s  %s\n", formatSpecialist(fmt.Sprintf("%-20s", sp.Name)), formatMuted(sp.ID))
			}
			return nil
		},
	}
}

func (a *App) specialistsAddCmd() *cobra.Command {
	var specColor string

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a new specialist",
		Example: `  careboard specialists add "Dr. Vos"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sp := &schedule.Specialist{ID: uuid.NewString(), Name: args[0], Color: specColor}
			if err := a.repo.CreateSpecialist(context.Background(), sp); err != nil {
				return fmt.Errorf("creating specialist: %w", err)
			}
			fmt.Printf("Created specialist %s\n", formatSpecialist(sp.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&specColor, "color", "", "Accent color (hex)")
	return cmd
}
