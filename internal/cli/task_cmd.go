package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectKey, name, start, end, status, priority, parent, phase string
	var progress, order int
	var isPhase bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.Resolve(ctx, projectKey)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			endDate := startDate
			if end != "" {
				if endDate, err = parseDateFlag("end", end); err != nil {
					return err
				}
			}

			t := &domain.Task{
				ProjectID:  p.ID,
				Name:       name,
				StartDate:  startDate,
				EndDate:    endDate,
				Progress:   progress,
				Status:     domain.TaskStatus(status),
				Priority:   domain.TaskPriority(priority),
				IsPhase:    isPhase,
				OrderIndex: order,
			}
			if parent != "" {
				pt, err := resolveTask(ctx, app, p.ID, parent)
				if err != nil {
					return fmt.Errorf("resolving --parent: %w", err)
				}
				t.ParentID = &pt.ID
			}
			if phase != "" {
				ph, err := resolveTask(ctx, app, p.ID, phase)
				if err != nil {
					return fmt.Errorf("resolving --phase: %w", err)
				}
				t.PhaseID = &ph.ID
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s (%s)\n", t.Name, formatter.DateRange(t.StartDate, t.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, defaults to start)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Percent complete (0-100)")
	cmd.Flags().StringVar(&status, "status", string(domain.TaskTodo), "Status (todo|in_progress|done|blocked)")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "Priority (low|medium|high|critical)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task (row number or ID)")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase task (row number or ID)")
	cmd.Flags().BoolVar(&isPhase, "is-phase", false, "Create the task as a phase")
	cmd.Flags().IntVar(&order, "order", 0, "Row order (defaults to last)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks in row order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(p.Name))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var projectKey, name, start, end, status, priority string
	var progress, order int

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTask(ctx, app, projectKey, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				t.Name = name
			}
			if cmd.Flags().Changed("start") {
				if t.StartDate, err = parseDateFlag("start", start); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("end") {
				if t.EndDate, err = parseDateFlag("end", end); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("progress") {
				t.Progress = progress
			}
			if cmd.Flags().Changed("status") {
				t.Status = domain.TaskStatus(status)
			}
			if cmd.Flags().Changed("priority") {
				t.Priority = domain.TaskPriority(priority)
			}
			if cmd.Flags().Changed("order") {
				t.OrderIndex = order
			}

			if err := app.Tasks.Update(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID (needed for row numbers)")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Percent complete (0-100)")
	cmd.Flags().StringVar(&status, "status", "", "Status (todo|in_progress|done|blocked)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high|critical)")
	cmd.Flags().IntVar(&order, "order", 0, "Row order")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var projectKey string

	cmd := &cobra.Command{
		Use:   "remove TASK",
		Short: "Remove a task and its links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTask(ctx, app, projectKey, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID (needed for row numbers)")

	return cmd
}

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}
	cmd.AddCommand(newDepAddCmd(app), newDepRemoveCmd(app))
	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var projectKey, typ string
	var lag int

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Link two tasks (FS, SS, FF or SF)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pred, err := resolveTask(ctx, app, projectKey, args[0])
			if err != nil {
				return err
			}
			succ, err := resolveTask(ctx, app, projectKey, args[1])
			if err != nil {
				return err
			}
			d := &domain.Dependency{
				PredecessorID: pred.ID,
				SuccessorID:   succ.ID,
				Type:          domain.ParseDependencyType(typ),
			}
			if cmd.Flags().Changed("lag") {
				d.LagDays = &lag
			}
			if err := app.Tasks.AddDependency(ctx, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s ─%s→ %s\n", pred.Name, d.Type.Short(), succ.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID (needed for row numbers)")
	cmd.Flags().StringVar(&typ, "type", "FS", "Dependency type (FS|SS|FF|SF)")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var projectKey string

	cmd := &cobra.Command{
		Use:   "remove PREDECESSOR SUCCESSOR",
		Short: "Remove the link between two tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pred, err := resolveTask(ctx, app, projectKey, args[0])
			if err != nil {
				return err
			}
			succ, err := resolveTask(ctx, app, projectKey, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.RemoveDependency(ctx, pred.ID, succ.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s → %s\n", pred.Name, succ.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectKey, "project", "", "Project ID or short ID (needed for row numbers)")

	return cmd
}
