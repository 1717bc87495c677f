package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project with its tasks, links and resources from JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d tasks, %d dependencies, %d resources (%d reused), %d assignments\n",
				result.Project.Name, result.Project.ShortID,
				result.TaskCount, result.DependencyCount,
				result.ResourceCount, result.ReusedResources, result.AssignmentCount)
			return nil
		},
	}
}

// ganttFlags are the filter and window flags shared by `gantt` and `view`.
type ganttFlags struct {
	from     string
	search   string
	statuses []string
	collapse []string
	hideDone bool
}

func (f *ganttFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "Chart start date (YYYY-MM-DD, defaults to the earliest task)")
	fs.StringVar(&f.search, "search", "", "Show tasks whose name contains this text")
	fs.StringSliceVar(&f.statuses, "status", nil, "Show only these statuses (todo,in_progress,done,blocked)")
	fs.StringSliceVar(&f.collapse, "collapse", nil, "Hide the children of these phase or parent task IDs")
	fs.BoolVar(&f.hideDone, "hide-done", false, "Hide completed tasks")
}

func (f *ganttFlags) request(project string) (contract.GanttRequest, error) {
	req := contract.NewGanttRequest(project)
	req.Filter.Search = f.search
	req.Filter.Collapsed = f.collapse
	req.Filter.HideCompleted = f.hideDone
	statuses, err := parseStatuses(f.statuses)
	if err != nil {
		return req, err
	}
	if len(statuses) > 0 {
		req.Filter.Statuses = statuses
	}
	from, err := parseDateFlag("from", f.from)
	if err != nil {
		return req, err
	}
	if !from.IsZero() {
		req.ViewStart = &from
	}
	return req, nil
}

func newGanttCmd(app *App) *cobra.Command {
	var flags ganttFlags
	var svgPath string
	var days, scroll, height int

	cmd := &cobra.Command{
		Use:   "gantt PROJECT",
		Short: "Print a project's gantt chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			if height > 0 {
				rowHeight := app.GanttConfig.Normalize().RowHeight
				req.ScrollOffset = float64(scroll) * rowHeight
				req.ViewportHeight = float64(height) * rowHeight
			}

			resp, err := app.Gantt.Layout(context.Background(), req)
			if err != nil {
				return err
			}

			if svgPath != "" {
				opts := render.DefaultOptions()
				opts.ArrowHeadSize = app.GanttConfig.Normalize().ArrowHeadSize
				if err := render.WriteFile(svgPath, resp, opts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d tasks, %d links)\n", svgPath, len(resp.Layout.Bars), len(resp.Layout.Arrows))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGantt(resp, formatter.ChartWindow{Days: days}))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&svgPath, "svg", "", "Write the chart as SVG to this file instead of printing it")
	cmd.Flags().IntVar(&days, "days", 0, "Limit the chart to this many day columns")
	cmd.Flags().IntVar(&scroll, "scroll", 0, "First row to show (with --height)")
	cmd.Flags().IntVar(&height, "height", 0, "Rows to show; 0 shows all")

	return cmd
}

func newUtilizationCmd(app *App) *cobra.Command {
	var from, to string
	var all bool

	cmd := &cobra.Command{
		Use:     "utilization [RESOURCE]",
		Aliases: []string{"util"},
		Short:   "Show daily load for a resource, or a summary of every resource",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			if fromDate.IsZero() {
				fromDate = time.Now().UTC()
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			if all || len(args) == 0 {
				resps, err := app.Utilization.ForAll(ctx, fromDate, toDate)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUtilizationOverview(resps))
				return nil
			}

			req := contract.NewUtilizationRequest(args[0], fromDate, toDate)
			resp, err := app.Utilization.ForResource(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUtilization(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", fmt.Sprintf("Window end (YYYY-MM-DD, defaults to %d days)", contract.DefaultUtilizationDays))
	cmd.Flags().BoolVar(&all, "all", false, "Summarize every resource")

	return cmd
}
