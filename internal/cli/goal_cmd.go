package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/cli/formatter"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

func newGoalCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals and goal categories",
	}

	category := &cobra.Command{
		Use:   "category",
		Short: "Manage goal categories",
	}
	category.AddCommand(newOrderedListCmds(a, orderedList[domain.GoalCategory]{
		noun:   "goal category",
		svc:    func(a *App) service.OrderedListService[domain.GoalCategory] { return a.GoalCategories },
		id:     goalCategoryID,
		name:   goalCategoryName,
		render: renderGoalCategories,
	})...)

	cmd.AddCommand(
		category,
		newGoalListCmd(a),
		newGoalAddCmd(a),
		newGoalEditCmd(a),
		newGoalToggleCmd(a),
		newGoalMoveCmd(a),
		newGoalRemoveCmd(a),
	)
	return cmd
}

func renderGoalCategories(_ *App, _ *cobra.Command, _ string, cs []*domain.GoalCategory) (string, error) {
	ids := make([]string, len(cs))
	names := make([]string, len(cs))
	for i, c := range cs {
		ids[i], names[i] = c.ID, c.Name
	}
	return formatter.FormatCategories(ids, names), nil
}

func newGoalListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list CATEGORY",
		Aliases: []string{"ls"},
		Short:   "List a category's goals",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			c, err := a.resolveGoalCategory(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			goals, err := a.Goals.List(cmd.Context(), u.ID, c.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(c.Name))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoals(goals))
			return nil
		},
	}
}

func newGoalAddCmd(a *App) *cobra.Command {
	var desc string
	var order int

	cmd := &cobra.Command{
		Use:   "add CATEGORY NAME",
		Short: "Append a goal to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			c, err := a.resolveGoalCategory(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			var explicit *int
			if cmd.Flags().Changed("order") {
				explicit = &order
			}
			g, err := a.Goals.Create(cmd.Context(), u.ID, c.ID, args[1], desc, explicit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s in %s\n", g.Name, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().IntVar(&order, "order", 0, "Store this order instead of appending")
	return cmd
}

func newGoalEditCmd(a *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "edit REF",
		Short: "Change a goal's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			g, err := a.resolveGoal(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = g.Name
			}
			if !cmd.Flags().Changed("desc") {
				desc = g.Description
			}
			if _, err := a.Goals.Update(cmd.Context(), u.ID, g.ID, name, desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	return cmd
}

func newGoalToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle REF",
		Short: "Mark a goal reached, or not reached again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			g, err := a.resolveGoal(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			g, err = a.Goals.Toggle(cmd.Context(), u.ID, g.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Check(g.Completed != nil), g.Name)
			return nil
		},
	}
}

func newGoalMoveCmd(a *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move REF POSITION",
		Short: "Move a goal, optionally into another category",
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
			g, err := a.resolveGoal(ctx, u.ID, args[0])
			if err != nil {
				return err
			}
			dest := ""
			if to != "" {
				c, err := a.resolveGoalCategory(ctx, u.ID, to)
				if err != nil {
					return err
				}
				dest = c.ID
			}
			res, err := a.Goals.Move(ctx, u.ID, g.ID, index, dest)
			if err != nil {
				return err
			}
			list := res.Source
			if res.Destination != nil {
				list = res.Destination
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoals(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "category", "", "Destination category")
	return cmd
}

func newGoalRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			g, err := a.resolveGoal(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if err := a.Goals.Delete(cmd.Context(), u.ID, g.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", g.Name)
			return nil
		},
	}
}
