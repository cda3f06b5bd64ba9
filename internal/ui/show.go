package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

func (a *App) showCmd() *cobra.Command {
	var verbose bool
	var noColor bool
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one day's board",
		Long: `Display one day's meetings grouped by room.

This is a quick read-only view. Use 'careboard week' for the weekly
summary or run careboard without a subcommand for the interactive grid.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}
			day = dateutil.TruncateToDay(day)

			meetings, err := a.repo.ListMeetingsByDateRange(ctx, day, day)
			if err != nil {
				return fmt.Errorf("fetching meetings: %w", err)
			}
			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			specialists, err := a.repo.ListSpecialists(ctx)
			if err != nil {
				return fmt.Errorf("listing specialists: %w", err)
			}

			fmt.Printf("=== %s ===\n\n", formatHeader(day.Format("Monday, January 2, 2006")))

			if len(meetings) == 0 {
				fmt.Println("No meetings scheduled.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose}
			maxNotesWidth := opts.CalcMaxNotesWidth(50)

			var stats BoardStats
			dayKey := day.Format("Mon Jan 2")
			for _, r := range rooms {
				inRoom := roomMeetings(meetings, r.ID)
				if len(inRoom) == 0 {
					continue
				}
				fmt.Printf("%s\n", formatRoom(r.Name))
				for _, m := range inRoom {
					PrintMeetingRow(m, r.Name,
						specialistNameList(specialists, m.SpecialistIDs),
						opts, maxNotesWidth)
					AccumulateStats(&stats, m, r.Name, dayKey)
				}
				fmt.Println()
			}

			openMinutes := (a.config.EndHour() - a.config.StartHour()) * 60 * len(rooms)
			PrintStats(stats, openMinutes)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to show (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full meeting notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// roomMeetings filters meetings for one room, preserving order.
func roomMeetings(meetings []*schedule.Meeting, roomID string) []*schedule.Meeting {
	var out []*schedule.Meeting
	for _, m := range meetings {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out
}
