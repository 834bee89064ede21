package domain

import (
	"strings"
	"time"
)

// ProjectGrouping controls how a user's project list is grouped.
type ProjectGrouping string

const (
	GroupingNone     ProjectGrouping = "none"
	GroupingCategory ProjectGrouping = "category"
	GroupingStatus   ProjectGrouping = "status"
)

// ValidProjectGroupings is the canonical set of accepted grouping values.
var ValidProjectGroupings = map[ProjectGrouping]bool{
	GroupingNone: true, GroupingCategory: true, GroupingStatus: true,
}

// User owns slots, project categories, projects and goal categories. Every
// per-user ordered list is scoped by the user's ID.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string

	DefaultProjectGrouping ProjectGrouping
	ShowDoneProjects       bool

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lower-cases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
