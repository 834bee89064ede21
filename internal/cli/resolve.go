package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stratako/stratako/internal/domain"
)

// resolve picks one item by exact ID, case-insensitive name or ID prefix,
// in that order.
func resolve[T any](items []*T, id, name func(*T) string, input, noun string) (*T, error) {
	if input == "" {
		return nil, fmt.Errorf("%s is required", noun)
	}
	for _, it := range items {
		if id(it) == input {
			return it, nil
		}
	}

	var matches []*T
	for _, it := range items {
		if strings.EqualFold(name(it), input) {
			matches = append(matches, it)
		}
	}
	if len(matches) == 0 {
		for _, it := range items {
			if strings.HasPrefix(id(it), input) {
				matches = append(matches, it)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s not found: %q", noun, input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%s %q is ambiguous (%d matches)", noun, input, len(matches))
	}
}

// position parses a 1-based position argument into a 0-based index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: want a number from 1", arg)
	}
	return n - 1, nil
}

func slotID(s *domain.Slot) string { return s.ID }
func slotName(s *domain.Slot) string { return s.Name }
func operationID(o *domain.Operation) string { return o.ID }
func operationName(o *domain.Operation) string { return o.Name }
func taskID(t *domain.Task) string { return t.ID }
func taskName(t *domain.Task) string { return t.Name }
func projectID(p *domain.Project) string { return p.ID }
func projectName(p *domain.Project) string { return p.Name }
func projectCategoryID(c *domain.ProjectCategory) string { return c.ID }
func projectCategoryName(c *domain.ProjectCategory) string { return c.Name }
func goalCategoryID(c *domain.GoalCategory) string { return c.ID }
func goalCategoryName(c *domain.GoalCategory) string { return c.Name }
func goalID(g *domain.Goal) string { return g.ID }
func goalName(g *domain.Goal) string { return g.Name }

func (a *App) resolveSlot(ctx context.Context, userID, input string) (*domain.Slot, error) {
	slots, err := a.Slots.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolve(slots, slotID, slotName, input, "slot")
}

// allOperations lists every operation across the user's slots.
func (a *App) allOperations(ctx context.Context, userID string) ([]*domain.Operation, error) {
	slots, err := a.Slots.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []*domain.Operation
	for _, s := range slots {
		ops, err := a.Operations.List(ctx, userID, s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ops...)
	}
	return out, nil
}

func (a *App) resolveOperation(ctx context.Context, userID, input string) (*domain.Operation, error) {
	ops, err := a.allOperations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolve(ops, operationID, operationName, input, "operation")
}

func (a *App) resolveProject(ctx context.Context, userID, input string) (*domain.Project, error) {
	projects, err := a.Projects.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return resolve(projects, projectID, projectName, input, "project")
}

// resolveContainer turns --op/--project flag values into a task container.
// Exactly one must be set unless optional is true and both are empty.
func (a *App) resolveContainer(ctx context.Context, userID, op, project string, optional bool) (*domain.TaskContainer, error) {
	switch {
	case op != "" && project != "":
		return nil, fmt.Errorf("give either --op or --project, not both")
	case op != "":
		o, err := a.resolveOperation(ctx, userID, op)
		if err != nil {
			return nil, err
		}
		return &domain.TaskContainer{Kind: domain.ContainerOperation, ID: o.ID}, nil
	case project != "":
		p, err := a.resolveProject(ctx, userID, project)
		if err != nil {
			return nil, err
		}
		return &domain.TaskContainer{Kind: domain.ContainerProject, ID: p.ID}, nil
	case optional:
		return nil, nil
	default:
		return nil, fmt.Errorf("one of --op or --project is required")
	}
}

// resolveTask searches the tasks of every operation and project.
func (a *App) resolveTask(ctx context.Context, userID, input string) (*domain.Task, error) {
	var containers []domain.TaskContainer
	ops, err := a.allOperations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range ops {
		containers = append(containers, domain.TaskContainer{Kind: domain.ContainerOperation, ID: o.ID})
	}
	projects, err := a.Projects.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		containers = append(containers, domain.TaskContainer{Kind: domain.ContainerProject, ID: p.ID})
	}

	var tasks []*domain.Task
	for _, c := range containers {
		ts, err := a.Tasks.List(ctx, userID, c)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, ts...)
	}
	return resolve(tasks, taskID, taskName, input, "task")
}

func (a *App) resolveGoalCategory(ctx context.Context, userID, input string) (*domain.GoalCategory, error) {
	categories, err := a.GoalCategories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolve(categories, goalCategoryID, goalCategoryName, input, "goal category")
}

func (a *App) resolveGoal(ctx context.Context, userID, input string) (*domain.Goal, error) {
	categories, err := a.GoalCategories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var goals []*domain.Goal
	for _, c := range categories {
		gs, err := a.Goals.List(ctx, userID, c.ID)
		if err != nil {
			return nil, err
		}
		goals = append(goals, gs...)
	}
	return resolve(goals, goalID, goalName, input, "goal")
}
