package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/spf13/cobra"
)

func newResourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource",
		Aliases: []string{"res"},
		Short:   "Manage resources and their assignments",
	}

	cmd.AddCommand(
		newResourceAddCmd(app),
		newResourceListCmd(app),
		newResourceRemoveCmd(app),
		newResourceAssignCmd(app),
		newResourceUnassignCmd(app),
		newResourceAssignmentsCmd(app),
	)

	return cmd
}

func newResourceAddCmd(app *App) *cobra.Command {
	var name, typ string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &domain.Resource{
				Name:            name,
				Type:            domain.ResourceType(typ),
				BaseHoursPerDay: hours,
			}
			if err := app.Resources.Create(context.Background(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created resource %s (%s/day)\n", r.Name, formatter.FormatHours(r.EffectiveBaseHours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Resource name (unique)")
	cmd.Flags().StringVar(&typ, "type", string(domain.ResourcePerson), "Type (person|equipment|material)")
	cmd.Flags().Float64Var(&hours, "hours", domain.DefaultBaseHoursPerDay, "Capacity in hours per day")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newResourceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := app.Resources.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatResourceList(resources))
			return nil
		},
	}
}

func newResourceRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove RESOURCE",
		Short: "Remove a resource and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := app.Resources.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Resources.Delete(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed resource %s\n", r.Name)
			return nil
		},
	}
}

func newResourceAssignCmd(app *App) *cobra.Command {
	var projectKey, start, end string
	var units int
	var hours float64

	cmd := &cobra.Command{
		Use:   "assign RESOURCE TASK",
		Short: "Book a resource onto a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := app.Resources.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, projectKey, args[1])
			if err != nil {
				return err
			}

			a := &domain.ResourceAssignment{ResourceID: r.ID, TaskID: t.ID}
			if cmd.Flags().Changed("units") {
				a.Units = &units
			}
			if cmd.Flags().Changed("hours") {
				a.HoursPerDay = &hours
			}
			if start != "" || end != "" {
				s, err := parseDateFlag("start", start)
				if err != nil {
					return err
				}
				e, err := parseDateFlag("end", end)
				if err != nil {
					return err
				}
				if s.IsZero() || e.IsZero() {
					return fmt.Errorf("--start and --end must be given together")
				}
				a.StartDate, a.EndDate = &s, &e
			}

			if err := app.Resources.Assign(ctx, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s at %d%%\n", r.Name, t.Name, a.EffectiveUnits())
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID (needed for row numbers)")
	cmd.Flags().IntVar(&units, "units", domain.DefaultUnits, "Percent of capacity (100 = full time)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours per day, overriding the resource's capacity")
	cmd.Flags().StringVar(&start, "start", "", "Assignment start (YYYY-MM-DD, defaults to the task's)")
	cmd.Flags().StringVar(&end, "end", "", "Assignment end (YYYY-MM-DD, defaults to the task's)")

	return cmd
}

func newResourceUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign ASSIGNMENT_ID",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Resources.Unassign(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newResourceAssignmentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assignments RESOURCE",
		Short: "List a resource's assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := app.Resources.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			views, err := app.Resources.ListAssignments(ctx, r.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAssignmentList(r, views))
			return nil
		},
	}
}
