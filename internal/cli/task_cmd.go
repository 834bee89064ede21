package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/cli/formatter"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of operations and projects",
	}
	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskAddCmd(a),
		newTaskRenameCmd(a),
		newTaskToggleCmd(a),
		newTaskMoveCmd(a),
		newTaskRemoveCmd(a),
	)
	return cmd
}

type containerFlags struct {
	op, project string
}

func (f *containerFlags) register(cmd *cobra.Command, verb string) {
	cmd.Flags().StringVar(&f.op, "op", "", "Operation "+verb)
	cmd.Flags().StringVar(&f.project, "project", "", "Project "+verb)
}

func newTaskListCmd(a *App) *cobra.Command {
	var flags containerFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of an operation or project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			c, err := a.resolveContainer(cmd.Context(), u.ID, flags.op, flags.project, false)
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.List(cmd.Context(), u.ID, *c)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTasks(tasks))
			return nil
		},
	}
	flags.register(cmd, "holding the tasks")
	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	var flags containerFlags
	var order int

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Append a task to an operation or project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			c, err := a.resolveContainer(cmd.Context(), u.ID, flags.op, flags.project, false)
			if err != nil {
				return err
			}
			var explicit *int
			if cmd.Flags().Changed("order") {
				explicit = &order
			}
			t, err := a.Tasks.Create(cmd.Context(), u.ID, *c, args[0], explicit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", t.Name)
			return nil
		},
	}
	flags.register(cmd, "to add to")
	cmd.Flags().IntVar(&order, "order", 0, "Store this order instead of appending")
	return cmd
}

func newTaskRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename REF NAME",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			t, err := a.resolveTask(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if _, err := a.Tasks.Rename(cmd.Context(), u.ID, t.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed task to %s\n", args[1])
			return nil
		},
	}
}

func newTaskToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle REF",
		Short: "Mark a task done, or not done again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			t, err := a.resolveTask(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			t, err = a.Tasks.Toggle(cmd.Context(), u.ID, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Check(t.Completed != nil), t.Name)
			return nil
		},
	}
}

func newTaskMoveCmd(a *App) *cobra.Command {
	var flags containerFlags

	cmd := &cobra.Command{
		Use:   "move REF POSITION",
		Short: "Move a task, optionally into another operation or project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			index, err := position(args[1])
			if err != nil {
				return err
			}
			t, err := a.resolveTask(ctx, u.ID, args[0])
			if err != nil {
				return err
			}
			dest, err := a.resolveContainer(ctx, u.ID, flags.op, flags.project, true)
			if err != nil {
				return err
			}
			res, err := a.Tasks.Move(ctx, u.ID, t.ID, index, dest)
			if err != nil {
				return err
			}
			list := res.Source
			if res.Destination != nil {
				list = res.Destination
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTasks(list))
			return nil
		},
	}
	flags.register(cmd, "to move into")
	return cmd
}

func newTaskRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			t, err := a.resolveTask(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if err := a.Tasks.Delete(cmd.Context(), u.ID, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.Name)
			return nil
		},
	}
}
