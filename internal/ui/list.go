package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"careboard/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		verbose   bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meetings in a date range",
		Long: `List all meetings scheduled within a date range.

If no dates are specified, lists today's meetings.
If only --start is specified, lists meetings for that single day.
If both --start and --end are specified, lists meetings in that range (inclusive).`,
		Example: `  careboard list
  careboard list --start=2026-01-15
  careboard list --start=2026-01-15 --end=2026-01-20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			start, err := dateutil.ParseDate(startDate)
			if err != nil {
				return err
			}
			end := start
			if endDate != "" {
				end, err = dateutil.ParseDate(endDate)
				if err != nil {
					return err
				}
			}
			if end.Before(start) {
				return dateutil.ErrEndDateBeforeStart
			}

			ctx := context.Background()
			meetings, err := a.repo.ListMeetingsByDateRange(ctx, start, end)
			if err != nil {
				return fmt.Errorf("listing meetings: %w", err)
			}

			if len(meetings) == 0 {
				fmt.Println("No meetings found in the specified date range.")
				return nil
			}

			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			specialists, err := a.repo.ListSpecialists(ctx)
			if err != nil {
				return fmt.Errorf("listing specialists: %w", err)
			}

			opts := PrintOpts{Verbose: verbose, ShowRoom: true}
			maxNotesWidth := opts.CalcMaxNotesWidth(40)

			// Print meetings grouped by date
			var currentDate string
			for _, m := range meetings {
				date := m.Date.Format("2006-01-02")
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Printf("=== %s ===\n", formatHeader(date))
					currentDate = date
				}
				PrintMeetingRow(m,
					roomName(rooms, m.RoomID),
					specialistNameList(specialists, m.SpecialistIDs),
					opts, maxNotesWidth)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full meeting notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return cmd
}
