package ui

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"careboard/internal/schedule"
)

func (a *App) patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patients",
	}
	cmd.AddCommand(a.patientsListCmd())
	cmd.AddCommand(a.patientsAddCmd())
	return cmd
}

func (a *App) patientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			patients, err := a.repo.ListPatients(context.Background())
			if err != nil {
				return fmt.Errorf("listing patients: %w", err)
			}
			if len(patients) == 0 {
				fmt.Println("No patients configured. Add one with 'careboard patients add'.")
				return nil
			}
			for _, p := range patients {
				fmt.Printf("  %-20s  %s\n", p.Name, formatMuted(p.ID))
			}
			return nil
		},
	}
}

func (a *App) patientsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a new patient",
		Example: `  careboard patients add "J. de Wit"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			p := &schedule.Patient{ID: uuid.NewString(), Name: args[0]}
			if err := a.repo.CreatePatient(context.Background(), p); err != nil {
				return fmt.Errorf("creating patient: %w", err)
			}
			fmt.Printf("Created patient %s\n", p.Name)
			return nil
		},
	}
}
