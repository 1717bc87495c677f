package cli

import (
	"log/slog"
	"os"

	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Tasks       service.TaskService
	Resources   service.ResourceService
	Gantt       service.GanttService
	Utilization service.UtilizationService
	Import      service.ImportService

	// GanttConfig is the geometry the services were built with; the TUI
	// uses it to convert terminal rows into scroll offsets.
	GanttConfig gantt.Config
	HTTPAddr    string
	Version     string
	Logger      *slog.Logger

	// IsInteractive reports whether stdout is a terminal. Nil means yes.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive == nil || a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "gantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Gantt chart scheduling and rendering",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" || !app.interactive() {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newResourceCmd(app),
		newImportCmd(app),
		newGanttCmd(app),
		newUtilizationCmd(app),
		newViewCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
	)

	return root
}
