package api

import (
	"time"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

const dateLayout = "2006-01-02"

type userView struct {
	ID                     string     `json:"id"`
	Email                  string     `json:"email"`
	Name                   string     `json:"name"`
	DefaultProjectGrouping string     `json:"default_project_grouping"`
	ShowDoneProjects       bool       `json:"show_done_projects"`
	LastLogin              *time.Time `json:"last_login"`
}

type slotView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Order       int     `json:"order"`
	OperationID *string `json:"operation"`
}

type categoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type operationView struct {
	ID          string  `json:"id"`
	Slot        string  `json:"slot"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Order       *int    `json:"order"`
	Position    int     `json:"position"`
	Started     *string `json:"started"`
	Completed   *string `json:"completed"`
}

type taskView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Operation *string    `json:"operation"`
	Project   *string    `json:"project"`
	Order     int        `json:"order"`
	Completed *time.Time `json:"completed"`
}

type projectView struct {
	ID          string    `json:"id"`
	Category    *string   `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Status      int       `json:"status"`
	StatusName  string    `json:"status_name"`
	Created     time.Time `json:"created"`
}

type goalView struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Completed   *time.Time `json:"completed"`
}

type reorderedView[V any] struct {
	Item        V   `json:"item"`
	Source      []V `json:"source"`
	Destination []V `json:"destination,omitempty"`
}

func userJSON(u *domain.User) userView {
	return userView{
		ID:                     u.ID,
		Email:                  u.Email,
		Name:                   u.Name,
		DefaultProjectGrouping: string(u.DefaultProjectGrouping),
		ShowDoneProjects:       u.ShowDoneProjects,
		LastLogin:              u.LastLogin,
	}
}

func slotJSON(s *domain.Slot) slotView {
	return slotView{ID: s.ID, Name: s.Name, Order: s.Order, OperationID: s.OperationID}
}

func projectCategoryJSON(c *domain.ProjectCategory) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Order: c.Order}
}

func goalCategoryJSON(c *domain.GoalCategory) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Order: c.Order}
}

func operationJSON(o *domain.Operation) operationView {
	return operationView{
		ID:          o.ID,
		Slot:        o.SlotID,
		Name:        o.Name,
		Description: o.Description,
		Order:       o.Order,
		Position:    o.Position,
		Started:     formatDate(o.Started),
		Completed:   formatDate(o.Completed),
	}
}

func taskJSON(t *domain.Task) taskView {
	return taskView{
		ID:        t.ID,
		Name:      t.Name,
		Operation: t.OperationID,
		Project:   t.ProjectID,
		Order:     t.Order,
		Completed: t.Completed,
	}
}

func projectJSON(p *domain.Project) projectView {
	return projectView{
		ID:          p.ID,
		Category:    p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		Status:      int(p.Status),
		StatusName:  p.Status.String(),
		Created:     p.CreatedAt,
	}
}

func goalJSON(g *domain.Goal) goalView {
	return goalView{
		ID:          g.ID,
		Category:    g.CategoryID,
		Name:        g.Name,
		Description: g.Description,
		Order:       g.Order,
		Completed:   g.Completed,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func listJSON[T, V any](items []*T, view func(*T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}

func reorderedJSON[T, V any](r *service.Reordered[T], view func(*T) V) reorderedView[V] {
	out := reorderedView[V]{Item: view(r.Item), Source: listJSON(r.Source, view)}
	if r.Destination != nil {
		out.Destination = listJSON(r.Destination, view)
	}
	return out
}
