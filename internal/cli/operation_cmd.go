package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/cli/formatter"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

func newOperationCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "op",
		Aliases: []string{"operation"},
		Short:   "Manage the operations queued in slots",
	}
	cmd.AddCommand(
		newOpListCmd(a),
		newOpAddCmd(a),
		newOpShowCmd(a),
		newOpEditCmd(a),
		newOpMoveCmd(a),
		newOpStartCmd(a),
		newOpDoneCmd(a),
		newOpRemoveCmd(a),
	)
	return cmd
}

func newOpListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list SLOT",
		Aliases: []string{"ls"},
		Short:   "List a slot's operations by position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			slot, err := a.resolveSlot(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			ops, err := a.Operations.List(cmd.Context(), u.ID, slot.ID)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No operations in %s.\n", slot.Name)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(slot.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOperations(ops, a.now()))
			return nil
		},
	}
}

func newOpAddCmd(a *App) *cobra.Command {
	var desc string
	var order int
	var started bool

	cmd := &cobra.Command{
		Use:   "add SLOT NAME",
		Short: "Queue an operation, or start it right away with --started",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			slot, err := a.resolveSlot(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			in := service.NewOperation{Name: args[1], Description: desc, Started: started}
			if cmd.Flags().Changed("order") {
				in.Order = &order
			}
			op, err := a.Operations.Create(cmd.Context(), u.ID, slot.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created operation %s in %s (%s)\n", op.Name, slot.Name, op.State())
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().IntVar(&order, "order", 0, "Store this order instead of appending")
	cmd.Flags().BoolVar(&started, "started", false, "Start the operation today")
	return cmd
}

func newOpShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show REF",
		Short: "Show an operation and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			op, err := a.resolveOperation(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.List(cmd.Context(), u.ID, domain.TaskContainer{Kind: domain.ContainerOperation, ID: op.ID})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOperation(op, tasks, a.now()))
			return nil
		},
	}
}

func newOpEditCmd(a *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "edit REF",
		Short: "Change an operation's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			op, err := a.resolveOperation(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = op.Name
			}
			if !cmd.Flags().Changed("desc") {
				desc = op.Description
			}
			if _, err := a.Operations.Update(cmd.Context(), u.ID, op.ID, name, desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated operation %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	return cmd
}

func newOpMoveCmd(a *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move REF POSITION",
		Short: "Move a queued operation, optionally into another slot",
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
			op, err := a.resolveOperation(ctx, u.ID, args[0])
			if err != nil {
				return err
			}
			dest := ""
			if to != "" {
				slot, err := a.resolveSlot(ctx, u.ID, to)
				if err != nil {
					return err
				}
				dest = slot.ID
			}
			res, err := a.Operations.Move(ctx, u.ID, op.ID, index, dest)
			if err != nil {
				return err
			}
			ops, err := a.Operations.List(ctx, u.ID, res.Item.SlotID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOperations(ops, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "slot", "", "Destination slot")
	return cmd
}

func newOpStartCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start REF",
		Short: "Start a queued operation and make it its slot's active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			op, err := a.resolveOperation(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if _, err := a.Operations.Activate(cmd.Context(), u.ID, op.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started %s\n", op.Name)
			return nil
		},
	}
}

func newOpDoneCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done REF",
		Short: "Complete a started operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			op, err := a.resolveOperation(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if _, err := a.Operations.Complete(cmd.Context(), u.ID, op.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", op.Name)
			return nil
		},
	}
}

func newOpRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete an operation and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			op, err := a.resolveOperation(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if err := a.Operations.Delete(cmd.Context(), u.ID, op.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted operation %s\n", op.Name)
			return nil
		},
	}
}
