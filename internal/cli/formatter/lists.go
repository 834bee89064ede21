package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stratako/stratako/internal/domain"
)

// FormatSlots lists slots with their active operation, if any. active maps
// operation IDs to names.
func FormatSlots(slots []*domain.Slot, active map[string]string) string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		current := Dim("idle")
		if s.HasActiveOperation() {
			current = StyleGreen.Render(active[*s.OperationID])
		}
		rows = append(rows, []string{strconv.Itoa(s.Order), TruncID(s.ID), Bold(s.Name), current})
	}
	return RenderTable([]string{"#", "ID", "SLOT", "ACTIVE"}, rows)
}

// FormatCategories lists project or goal categories.
func FormatCategories(ids, names []string) string {
	rows := make([][]string, 0, len(ids))
	for i := range ids {
		rows = append(rows, []string{strconv.Itoa(i + 1), TruncID(ids[i]), Bold(names[i])})
	}
	return RenderTable([]string{"#", "ID", "CATEGORY"}, rows)
}

// FormatOperations lists a slot's operations by position. Queued
// operations show their order.
func FormatOperations(ops []*domain.Operation, now time.Time) string {
	rows := make([][]string, 0, len(ops))
	for _, o := range ops {
		order := Dim("-")
		if o.Order != nil {
			order = strconv.Itoa(*o.Order)
		}
		rows = append(rows, []string{
			strconv.Itoa(o.Position),
			order,
			TruncID(o.ID),
			o.Name,
			StatePill(o.State()),
			DateCell(o.Started, now),
			DateCell(o.Completed, now),
		})
	}
	return RenderTable([]string{"POS", "ORDER", "ID", "OPERATION", "STATE", "STARTED", "COMPLETED"}, rows)
}

// FormatOperation renders one operation with its tasks.
func FormatOperation(o *domain.Operation, tasks []*domain.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(o.Name), StatePill(o.State()))
	if o.Description != "" {
		fmt.Fprintf(&b, "%s\n", o.Description)
	}
	fmt.Fprintf(&b, "\nstarted    %s\ncompleted  %s\n", DateCell(o.Started, now), DateCell(o.Completed, now))
	if len(tasks) > 0 {
		b.WriteString("\n" + FormatTasks(tasks))
	}
	return RenderBox("operation "+TruncID(o.ID), strings.TrimRight(b.String(), "\n"))
}

// FormatTasks lists tasks in order as a checklist.
func FormatTasks(tasks []*domain.Task) string {
	var b strings.Builder
	for _, t := range tasks {
		name := t.Name
		if t.Completed != nil {
			name = Dim(name)
		}
		fmt.Fprintf(&b, "%2d. %s %s  %s\n", t.Order, Check(t.Completed != nil), name, TruncID(t.ID))
	}
	return b.String()
}

// FormatProjects lists projects. categories maps category IDs to names.
func FormatProjects(projects []*domain.Project, categories map[string]string) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		category := Dim("--")
		if p.CategoryID != nil {
			category = categories[*p.CategoryID]
		}
		rows = append(rows, []string{TruncID(p.ID), Bold(p.Name), category, StatusPill(p.Status)})
	}
	return RenderTable([]string{"ID", "PROJECT", "CATEGORY", "STATUS"}, rows)
}

// FormatGoals lists a category's goals in order.
func FormatGoals(goals []*domain.Goal) string {
	var b strings.Builder
	for _, g := range goals {
		fmt.Fprintf(&b, "%2d. %s %s  %s\n", g.Order, Check(g.Completed != nil), g.Name, TruncID(g.ID))
		if g.Description != "" {
			fmt.Fprintf(&b, "      %s\n", Dim(g.Description))
		}
	}
	return b.String()
}
