package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"careboard/internal/db"
	"careboard/internal/schedule"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import meetings from another database",
		Long: `Import all rooms, specialists, patients, and meetings from another
careboard database into the current one.

Rooms, specialists, and patients are matched by name; missing ones are
created. Meetings that would double-book a room or specialist in the
destination are skipped.

Example:
  careboard import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			imported, skipped, err := importBoard(context.Background(), a.repo, sourcePath)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d meetings from %s\n", imported, sourcePath)
			if skipped > 0 {
				fmt.Println(formatWarn(fmt.Sprintf("Skipped %d double-booked meetings", skipped)))
			}
			return nil
		},
	}

	return cmd
}

// importBoard copies a whole source database into dest. Reference rows are
// matched by case-insensitive name so repeated imports do not duplicate them.
func importBoard(ctx context.Context, dest schedule.Repository, sourcePath string) (imported, skipped int, err error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	roomMap, err := importRooms(ctx, dest, sourceRepo)
	if err != nil {
		return 0, 0, err
	}
	specMap, err := importSpecialists(ctx, dest, sourceRepo)
	if err != nil {
		return 0, 0, err
	}
	patMap, err := importPatients(ctx, dest, sourceRepo)
	if err != nil {
		return 0, 0, err
	}

	meetings, err := sourceRepo.ListAllMeetings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("listing source meetings: %w", err)
	}

	for _, src := range meetings {
		newMeeting := &schedule.Meeting{
			ID:            uuid.NewString(),
			Date:          src.Date,
			StartTime:     src.StartTime,
			EndTime:       src.EndTime,
			RoomID:        roomMap[src.RoomID],
			SpecialistIDs: remapIDs(src.SpecialistIDs, specMap),
			PatientIDs:    remapIDs(src.PatientIDs, patMap),
			Notes:         src.Notes,
			Status:        src.Status,
			CreatedAt:     src.CreatedAt,
			UpdatedAt:     src.UpdatedAt,
		}
		if newMeeting.RoomID == "" {
			return imported, skipped, fmt.Errorf("meeting %s references unknown room %s", src.ID, src.RoomID)
		}

		createErr := dest.CreateMeeting(ctx, newMeeting)
		switch {
		case createErr == nil:
			imported++
		case errors.Is(createErr, schedule.ErrRoomDoubleBooked),
			errors.Is(createErr, schedule.ErrSpecialistDoubleBooked):
			skipped++
		default:
			return imported, skipped, fmt.Errorf("importing meeting %s: %w", src.ID, createErr)
		}
	}

	return imported, skipped, nil
}

// importRooms maps source room ids to destination room ids, creating rooms
// that do not exist yet.
func importRooms(ctx context.Context, dest schedule.Repository, source *db.SQLite) (map[string]string, error) {
	destRooms, err := dest.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing destination rooms: %w", err)
	}
	byName := make(map[string]string, len(destRooms))
	for _, r := range destRooms {
		byName[strings.ToLower(r.Name)] = r.ID
	}

	sourceRooms, err := source.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source rooms: %w", err)
	}

	idMap := make(map[string]string, len(sourceRooms))
	for _, r := range sourceRooms {
		if id, ok := byName[strings.ToLower(r.Name)]; ok {
			idMap[r.ID] = id
			continue
		}
		created := &schedule.Room{ID: uuid.NewString(), Name: r.Name, Color: r.Color}
		if err := dest.CreateRoom(ctx, created); err != nil {
			return nil, fmt.Errorf("creating room %q: %w", r.Name, err)
		}
		byName[strings.ToLower(r.Name)] = created.ID
		idMap[r.ID] = created.ID
	}
	return idMap, nil
}

func importSpecialists(ctx context.Context, dest schedule.Repository, source *db.SQLite) (map[string]string, error) {
	destSpecs, err := dest.ListSpecialists(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing destination specialists: %w", err)
	}
	byName := make(map[string]string, len(destSpecs))
	for _, sp := range destSpecs {
		byName[strings.ToLower(sp.Name)] = sp.ID
	}

	sourceSpecs, err := source.ListSpecialists(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source specialists: %w", err)
	}

	idMap := make(map[string]string, len(sourceSpecs))
	for _, sp := range sourceSpecs {
		if id, ok := byName[strings.ToLower(sp.Name)]; ok {
			idMap[sp.ID] = id
			continue
		}
		created := &schedule.Specialist{ID: uuid.NewString(), Name: sp.Name, Color: sp.Color}
		if err := dest.CreateSpecialist(ctx, created); err != nil {
			return nil, fmt.Errorf("creating specialist %q: %w", sp.Name, err)
		}
		byName[strings.ToLower(sp.Name)] = created.ID
		idMap[sp.ID] = created.ID
	}
	return idMap, nil
}

func importPatients(ctx context.Context, dest schedule.Repository, source *db.SQLite) (map[string]string, error) {
	destPats, err := dest.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing destination patients: %w", err)
	}
	byName := make(map[string]string, len(destPats))
	for _, p := range destPats {
		byName[strings.ToLower(p.Name)] = p.ID
	}

	sourcePats, err := source.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source patients: %w", err)
	}

	idMap := make(map[string]string, len(sourcePats))
	for _, p := range sourcePats {
		if id, ok := byName[strings.ToLower(p.Name)]; ok {
			idMap[p.ID] = id
			continue
		}
		created := &schedule.Patient{ID: uuid.NewString(), Name: p.Name}
		if err := dest.CreatePatient(ctx, created); err != nil {
			return nil, fmt.Errorf("creating patient %q: %w", p.Name, err)
		}
		byName[strings.ToLower(p.Name)] = created.ID
		idMap[p.ID] = created.ID
	}
	return idMap, nil
}

// remapIDs translates source reference ids through an id map, dropping ids
// the map does not know.
func remapIDs(ids []string, idMap map[string]string) []string {
	var out []string
	for _, id := range ids {
		if mapped, ok := idMap[id]; ok {
			out = append(out, mapped)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
