// Package validate holds the field rules of every entity. Each entity has
// one function listing its fields and their checks; the checks themselves
// are shared.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
	"github.com/stratako/stratako/internal/domain"
)

// Name length limits.
const (
	MaxSlotName     = 40
	MaxCategoryName = 40
	MaxProjectName  = 100
	MaxOpName       = 100
	MaxTaskName     = 200
	MaxGoalName     = 200
	MaxUserName     = 150
	MaxEmail        = 254
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Slot validates a slot before it is written.
func Slot(s domain.Slot) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", s.Name, name(MaxSlotName)),
		criterio.Run("order", s.Order, nonNegative),
	))
}

// Operation validates an operation before it is written.
func Operation(o domain.Operation) error {
	var order int
	if o.Order != nil {
		order = *o.Order
	}
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", o.Name, name(MaxOpName)),
		criterio.Run("slot", o.SlotID, required),
		criterio.Run("order", order, nonNegative),
		completedAfterStarted(o),
	))
}

// Task validates a task before it is written.
func Task(t domain.Task) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", t.Name, name(MaxTaskName)),
		criterio.Run("order", t.Order, nonNegative),
		taskContainer(t),
	))
}

// ProjectCategory validates a project category before it is written.
func ProjectCategory(c domain.ProjectCategory) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", c.Name, name(MaxCategoryName)),
		criterio.Run("order", c.Order, nonNegative),
	))
}

// Project validates a project before it is written.
func Project(p domain.Project) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", p.Name, name(MaxProjectName)),
		criterio.Run("color", p.Color, color),
		criterio.Run("status", p.Status, status),
	))
}

// GoalCategory validates a goal category before it is written.
func GoalCategory(c domain.GoalCategory) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", c.Name, name(MaxCategoryName)),
		criterio.Run("order", c.Order, nonNegative),
	))
}

// Goal validates a goal before it is written.
func Goal(g domain.Goal) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("name", g.Name, name(MaxGoalName)),
		criterio.Run("category", g.CategoryID, required),
		criterio.Run("order", g.Order, nonNegative),
	))
}

// User validates the profile fields of an owner. Passwords are checked by
// the identity package.
func User(u domain.User) error {
	return wrap(criterio.ValidateStruct(
		criterio.Run("email", u.Email, email),
		criterio.Run("name", u.Name, name(MaxUserName)),
		criterio.Run("default_project_grouping", u.DefaultProjectGrouping, grouping),
	))
}

// Field reports a single failed field as a validation error.
func Field(field string, err error) error {
	return wrap(criterio.NewFieldErrors(field, err))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

func name(limit int) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		if n := utf8.RuneCountInString(v); n > limit {
			return fmt.Errorf("ensure this value has at most %d characters (it has %d)", limit, n)
		}
		return nil
	}
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}

func nonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("ensure this value is greater than or equal to 0")
	}
	return nil
}

func color(v string) error {
	if !colorPattern.MatchString(v) {
		return fmt.Errorf("%q is not a #rrggbb color", v)
	}
	return nil
}

func status(v domain.ProjectStatus) error {
	if !v.IsValid() {
		return fmt.Errorf("%d is not a valid choice", int(v))
	}
	return nil
}

func email(v string) error {
	if v == "" {
		return fmt.Errorf("this field is required")
	}
	if len(v) > MaxEmail {
		return fmt.Errorf("ensure this value has at most %d characters", MaxEmail)
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func grouping(v domain.ProjectGrouping) error {
	if !domain.ValidProjectGroupings[v] {
		return fmt.Errorf("%q is not a valid choice", string(v))
	}
	return nil
}

func taskContainer(t domain.Task) error {
	hasOp := t.OperationID != nil && *t.OperationID != ""
	hasProject := t.ProjectID != nil && *t.ProjectID != ""
	switch {
	case hasOp && hasProject:
		return criterio.NewFieldErrors("container", fmt.Errorf("a task belongs to an operation or a project, not both"))
	case !hasOp && !hasProject:
		return criterio.NewFieldErrors("container", fmt.Errorf("a task needs an operation or a project"))
	}
	return nil
}

func completedAfterStarted(o domain.Operation) error {
	if o.Completed == nil {
		return nil
	}
	if o.Started == nil {
		return criterio.NewFieldErrors("completed", fmt.Errorf("an operation cannot be completed before it is started"))
	}
	if o.Completed.Before(*o.Started) {
		return criterio.NewFieldErrors("completed", fmt.Errorf("completion date is before the start date"))
	}
	return nil
}
