package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

func (a *App) weekCmd() *cobra.Command {
	var verbose bool
	var noColor bool
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show this week's meetings",
		Long: `Display one ISO week's meetings in a table with utilization stats.

Shows Monday through Sunday of the week containing the given date
(default: the current week).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			anchor := time.Now()
			if date != "" {
				d, err := dateutil.ParseDate(date)
				if err != nil {
					return err
				}
				anchor = d
			}
			monday, sunday := dateutil.WeekRange(anchor)

			meetings, err := a.repo.ListMeetingsByDateRange(ctx, monday, sunday)
			if err != nil {
				return fmt.Errorf("fetching meetings: %w", err)
			}

			if len(meetings) == 0 {
				fmt.Println("No meetings scheduled for this week.")
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

			// Print header
			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n", formatHeader(header))
			fmt.Println(strings.Repeat("─", 74))

			opts := PrintOpts{Verbose: verbose, ShowRoom: true, ShowDuration: true}
			maxNotesWidth := opts.CalcMaxNotesWidth(30)

			stats := printWeekTable(meetings, rooms, specialists, opts, maxNotesWidth)

			fmt.Println(strings.Repeat("─", 74))
			workdays := 5
			if a.config.Schedule.ShowWeekends {
				workdays = 7
			}
			openMinutes := (a.config.EndHour() - a.config.StartHour()) * 60 * len(rooms) * workdays
			PrintStats(stats, openMinutes)

			if day, minutes := stats.BusiestDay(); day != "" {
				fmt.Printf("Busiest day: %s (%s)\n", formatHeader(day), formatStats(FormatDuration(minutes)))
			}

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week to show (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full meeting notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printWeekTable(meetings []*schedule.Meeting, rooms []*schedule.Room, specialists []*schedule.Specialist, opts PrintOpts, maxNotesWidth int) BoardStats {
	var stats BoardStats
	var currentDate string
	for _, m := range meetings {
		date := m.Date.Format("2006-01-02")
		dayName := m.Date.Format("Mon Jan 2")

		// Print day header if new day
		if date != currentDate {
			if currentDate != "" {
				fmt.Println()
			}
			fmt.Printf("  %s\n", formatHeader(dayName))
			currentDate = date
		}

		label := roomName(rooms, m.RoomID)
		PrintMeetingRow(m, label, specialistNameList(specialists, m.SpecialistIDs), opts, maxNotesWidth)
		AccumulateStats(&stats, m, label, dayName)
	}
	return stats
}
