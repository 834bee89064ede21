package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratako/stratako/internal/cli/formatter"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

func newProjectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and project categories",
	}

	category := &cobra.Command{
		Use:   "category",
		Short: "Manage project categories",
	}
	category.AddCommand(newOrderedListCmds(a, orderedList[domain.ProjectCategory]{
		noun:   "project category",
		svc:    func(a *App) service.OrderedListService[domain.ProjectCategory] { return a.ProjectCategories },
		id:     projectCategoryID,
		name:   projectCategoryName,
		render: renderProjectCategories,
	})...)

	cmd.AddCommand(
		category,
		newProjectListCmd(a),
		newProjectAddCmd(a),
		newProjectShowCmd(a),
		newProjectEditCmd(a),
		newProjectRemoveCmd(a),
	)
	return cmd
}

func renderProjectCategories(_ *App, _ *cobra.Command, _ string, cs []*domain.ProjectCategory) (string, error) {
	ids := make([]string, len(cs))
	names := make([]string, len(cs))
	for i, c := range cs {
		ids[i], names[i] = c.ID, c.Name
	}
	return formatter.FormatCategories(ids, names), nil
}

// parseStatus accepts a status number or its name.
func parseStatus(s string) (domain.ProjectStatus, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return domain.ProjectStatus(n), nil
	}
	for st := domain.ProjectActive; st <= domain.ProjectAbandoned; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

type projectFlags struct {
	category, desc, color, status string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Project category (empty string clears it on edit)")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description")
	cmd.Flags().StringVar(&f.color, "color", "", "Color as #rrggbb")
	cmd.Flags().StringVar(&f.status, "status", "", "Status: active, maintenance, on hold, not started, completed or abandoned")
}

// apply overlays the flags the user set onto in.
func (f *projectFlags) apply(ctx context.Context, a *App, cmd *cobra.Command, userID string, in *service.ProjectInput) error {
	if cmd.Flags().Changed("category") {
		in.CategoryID = nil
		if f.category != "" {
			categories, err := a.ProjectCategories.List(ctx, userID)
			if err != nil {
				return err
			}
			c, err := resolve(categories, projectCategoryID, projectCategoryName, f.category, "project category")
			if err != nil {
				return err
			}
			in.CategoryID = &c.ID
		}
	}
	if cmd.Flags().Changed("desc") {
		in.Description = f.desc
	}
	if cmd.Flags().Changed("color") {
		in.Color = f.color
	}
	if cmd.Flags().Changed("status") {
		st, err := parseStatus(f.status)
		if err != nil {
			return err
		}
		in.Status = st
	}
	return nil
}

func newProjectListCmd(a *App) *cobra.Command {
	var done bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			includeDone := u.ShowDoneProjects
			if cmd.Flags().Changed("done") {
				includeDone = done
			}
			projects, err := a.Projects.List(ctx, u.ID, includeDone)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			categories, err := a.ProjectCategories.List(ctx, u.ID)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(categories))
			for _, c := range categories {
				names[c.ID] = c.Name
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjects(projects, names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "Include completed and abandoned projects")
	return cmd
}

func newProjectAddCmd(a *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			in := service.ProjectInput{Name: args[0]}
			if err := flags.apply(ctx, a, cmd, u.ID, &in); err != nil {
				return err
			}
			p, err := a.Projects.Create(ctx, u.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", p.Name, formatter.StatusPill(p.Status))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newProjectShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show REF",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			p, err := a.resolveProject(ctx, u.ID, args[0])
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.List(ctx, u.ID, domain.TaskContainer{Kind: domain.ContainerProject, ID: p.ID})
			if err != nil {
				return err
			}
			body := formatter.Bold(p.Name) + "  " + formatter.StatusPill(p.Status)
			if p.Description != "" {
				body += "\n" + p.Description
			}
			if len(tasks) > 0 {
				body += "\n\n" + strings.TrimRight(formatter.FormatTasks(tasks), "\n")
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("project "+formatter.TruncID(p.ID), body))
			return nil
		},
	}
}

func newProjectEditCmd(a *App) *cobra.Command {
	var flags projectFlags
	var name string

	cmd := &cobra.Command{
		Use:   "edit REF",
		Short: "Change a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			p, err := a.resolveProject(ctx, u.ID, args[0])
			if err != nil {
				return err
			}
			in := service.ProjectInput{
				CategoryID:  p.CategoryID,
				Name:        p.Name,
				Description: p.Description,
				Color:       p.Color,
				Status:      p.Status,
			}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if err := flags.apply(ctx, a, cmd, u.ID, &in); err != nil {
				return err
			}
			if _, err := a.Projects.Update(ctx, u.ID, p.ID, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", in.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	flags.register(cmd)
	return cmd
}

func newProjectRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove"},
		Short:   "Delete a project and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.user(cmd)
			if err != nil {
				return err
			}
			p, err := a.resolveProject(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if err := a.Projects.Delete(cmd.Context(), u.ID, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Name)
			return nil
		},
	}
}
