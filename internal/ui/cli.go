// Package ui implements the careboard command line interface.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"careboard/internal/config"
	"careboard/internal/db"
	"careboard/internal/dateutil"
	"careboard/internal/schedule"
	"careboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   schedule.Repository
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application with the given repository and config.
// When repo is nil it is opened lazily from the configured database path the
// first time a command needs it.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	var (
		date string
		view string
	)

	a.root = &cobra.Command{
		Use:   "careboard",
		Short: "A scheduling board for rooms and specialists",
		Long: `Careboard is a terminal scheduling board for a care organization.

Running it without a subcommand opens the interactive grid where meetings
can be created, moved, and resized with the mouse. Subcommands manage
rooms, specialists, patients, and meetings from scripts.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			opts, err := modelOptions(date, view)
			if err != nil {
				return err
			}
			return tui.RunWithDebug(a.repo, a.config, a.debug, opts...)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to careboard-debug.log)")
	a.root.Flags().StringVar(&date, "date", "", "Open the board at this date (YYYY-MM-DD)")
	a.root.Flags().StringVar(&view, "view", "", "Initial view: day, week, or month")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.roomsCmd())
	a.root.AddCommand(a.specialistsCmd())
	a.root.AddCommand(a.patientsCmd())

	return a
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// modelOptions translates the root flags into TUI options.
func modelOptions(date, view string) ([]tui.ModelOption, error) {
	var opts []tui.ModelOption
	if date != "" {
		d, err := dateutil.ParseDate(date)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tui.WithDate(d))
	}
	switch view {
	case "":
	case "day":
		opts = append(opts, tui.WithView(tui.ViewDay))
	case "week":
		opts = append(opts, tui.WithView(tui.ViewWeek))
	case "month":
		opts = append(opts, tui.WithView(tui.ViewMonth))
	default:
		return nil, fmt.Errorf("unknown view %q (want day, week, or month)", view)
	}
	return opts, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("careboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
