package ui

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"careboard/internal/schedule"
)

func (a *App) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Manage rooms",
	}
	cmd.AddCommand(a.roomsListCmd())
	cmd.AddCommand(a.roomsAddCmd())
	return cmd
}

func (a *App) roomsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rooms",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			rooms, err := a.repo.ListRooms(context.Background())
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			if len(rooms) == 0 {
				fmt.Println("No rooms configured. Add one with 'careboard rooms add'.")
				return nil
			}
			for _, r := range rooms {
				fmt.Printf("  %s  %s\n", formatRoom(fmt.Sprintf("%-20s", r.Name)), formatMuted(r.ID))
			}
			return nil
		},
	}
}

func (a *App) roomsAddCmd() *cobra.Command {
	var roomColor string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new room",
		Example: `  careboard rooms add "Therapy 1"
  careboard rooms add "Gym" --color="#a6e3a1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			r := &schedule.Room{ID: uuid.NewString(), Name: args[0], Color: roomColor}
			if err := a.repo.CreateRoom(context.Background(), r); err != nil {
				return fmt.Errorf("creating room: %w", err)
			}
			fmt.Printf("Created room %s\n", formatRoom(r.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&roomColor, "color", "", "Accent color for the grid header (hex)")
	return cmd
}
