package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description, start, end, shortID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			p := &domain.Project{
				ShortID:     shortID,
				Name:        name,
				Description: description,
				StartDate:   startDate,
			}
			if end != "" {
				endDate, err := parseDateFlag("end", end)
				if err != nil {
					return err
				}
				p.EndDate = &endDate
			}

			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 letters + 2-4 digits, e.g. WEB01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&end, "end", "", "Target end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show project details and its task tree",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Gantt.Layout(context.Background(), contract.NewGanttRequest(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectInspect(resp))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, description, start, end, status string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("description") {
				p.Description = description
			}
			if cmd.Flags().Changed("start") {
				if p.StartDate, err = parseDateFlag("start", start); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("end") {
				if end == "" {
					p.EndDate = nil
				} else {
					endDate, err := parseDateFlag("end", end)
					if err != nil {
						return err
					}
					p.EndDate = &endDate
				}
			}
			if cmd.Flags().Changed("status") {
				p.Status = domain.ProjectStatus(status)
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Target end date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&status, "status", "", "Project status (active|on_hold|done|archived)")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even if the project still has tasks")

	return cmd
}
