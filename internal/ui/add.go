package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"careboard/internal/dateutil"
	"careboard/internal/schedule"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date        string
		start       string
		end         string
		room        string
		specialists []string
		patients    []string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new meeting",
		Long: `Add a new meeting to the board.

Rooms, specialists, and patients may be given by name or by id.

Example:
  careboard add --date=2026-01-10 --start=09:00 --end=11:00 --room="Therapy 1" --specialist="Dr. Vos" --notes="Intake"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			roomID, err := a.resolveRoom(ctx, room)
			if err != nil {
				return err
			}
			specIDs, err := a.resolveSpecialists(ctx, specialists)
			if err != nil {
				return err
			}
			patIDs, err := a.resolvePatients(ctx, patients)
			if err != nil {
				return err
			}

			m, err := schedule.New(schedule.Draft{
				Date:          day,
				StartTime:     start,
				EndTime:       end,
				RoomID:        roomID,
				SpecialistIDs: specIDs,
				PatientIDs:    patIDs,
				Notes:         notes,
			})
			if err != nil {
				return err
			}

			if err := a.repo.CreateMeeting(ctx, m); err != nil {
				return fmt.Errorf("creating meeting: %w", err)
			}

			fmt.Printf("Created meeting %s %s-%s in %s\n",
				m.Date.Format("2006-01-02"), m.StartTime, m.EndTime, formatRoom(room))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Meeting date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&room, "room", "", "Room name or id (required)")
	cmd.Flags().StringArrayVar(&specialists, "specialist", nil, "Specialist name or id (repeatable)")
	cmd.Flags().StringArrayVar(&patients, "patient", nil, "Patient name or id (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Meeting notes")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

// resolveRoom matches a room by exact name (case-insensitive) or id.
func (a *App) resolveRoom(ctx context.Context, nameOrID string) (string, error) {
	rooms, err := a.repo.ListRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("listing rooms: %w", err)
	}
	for _, r := range rooms {
		if r.ID == nameOrID || strings.EqualFold(r.Name, nameOrID) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("unknown room %q", nameOrID)
}

func (a *App) resolveSpecialists(ctx context.Context, namesOrIDs []string) ([]string, error) {
	if len(namesOrIDs) == 0 {
		return nil, nil
	}
	specialists, err := a.repo.ListSpecialists(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing specialists: %w", err)
	}
	ids := make([]string, 0, len(namesOrIDs))
	for _, want := range namesOrIDs {
		found := false
		for _, sp := range specialists {
			if sp.ID == want || strings.EqualFold(sp.Name, want) {
				ids = append(ids, sp.ID)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown specialist %q", want)
		}
	}
	return ids, nil
}

func (a *App) resolvePatients(ctx context.Context, namesOrIDs []string) ([]string, error) {
	if len(namesOrIDs) == 0 {
		return nil, nil
	}
	patients, err := a.repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	ids := make([]string, 0, len(namesOrIDs))
	for _, want := range namesOrIDs {
		found := false
		for _, p := range patients {
			if p.ID == want || strings.EqualFold(p.Name, want) {
				ids = append(ids, p.ID)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown patient %q", want)
		}
	}
	return ids, nil
}
