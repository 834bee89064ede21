package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/service"
)

// orderedList describes one of the per-user ordered lists for the shared
// list/add/rename/move/rm commands.
type orderedList[T any] struct {
	noun   string
	svc    func(a *App) service.OrderedListService[T]
	id     func(*T) string
	name   func(*T) string
	render func(a *App, cmd *cobra.Command, userID string, items []*T) (string, error)
}

func newOrderedListCmds[T any](a *App, l orderedList[T]) []*cobra.Command {
	resolveItem := func(cmd *cobra.Command, userID, input string) (*T, error) {
		items, err := l.svc(a).List(cmd.Context(), userID)
		if err != nil {
			return nil, err
		}
		return resolve(items, l.id, l.name, input, l.noun)
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss in order", l.noun),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			items, err := l.svc(a).List(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %ss yet.\n", l.noun)
				return nil
			}
			out, err := l.render(a, cmd, u.ID, items)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	var order int
	add := &cobra.Command{
		Use:   "add NAME",
		Short: fmt.Sprintf("Append a %s", l.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			var explicit *int
			if cmd.Flags().Changed("order") {
				explicit = &order
			}
			item, err := l.svc(a).Create(cmd.Context(), u.ID, args[0], explicit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", l.noun, l.name(item))
			return nil
		},
	}
	add.Flags().IntVar(&order, "order", 0, "Store this order instead of appending")

	rename := &cobra.Command{
		Use:   "rename REF NAME",
		Short: fmt.Sprintf("Rename a %s", l.noun),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			item, err := resolveItem(cmd, u.ID, args[0])
			if err != nil {
				return err
			}
			if _, err := l.svc(a).Rename(cmd.Context(), u.ID, l.id(item), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", l.noun, args[1])
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move REF POSITION",
		Short: fmt.Sprintf("Move a %s to a 1-based position", l.noun),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			index, err := position(args[1])
			if err != nil {
				return err
			}
			item, err := resolveItem(cmd, u.ID, args[0])
			if err != nil {
				return err
			}
			res, err := l.svc(a).Move(cmd.Context(), u.ID, l.id(item), index)
			if err != nil {
				return err
			}
			out, err := l.render(a, cmd, u.ID, res.Source)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   fmt.Sprintf("Delete a %s", l.noun),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			item, err := resolveItem(cmd, u.ID, args[0])
			if err != nil {
				return err
			}
			if err := l.svc(a).Delete(cmd.Context(), u.ID, l.id(item)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", l.noun, l.name(item))
			return nil
		},
	}

	return []*cobra.Command{list, add, rename, move, remove}
}
