package domain

import "time"

// ProjectStatus is stored as a small integer; 1..6 are valid.
type ProjectStatus int

const (
	ProjectActive      ProjectStatus = 1
	ProjectMaintenance ProjectStatus = 2
	ProjectOnHold      ProjectStatus = 3
	ProjectNotStarted  ProjectStatus = 4
	ProjectCompleted   ProjectStatus = 5
	ProjectAbandoned   ProjectStatus = 6
)

var projectStatusNames = map[ProjectStatus]string{
	ProjectActive:      "active",
	ProjectMaintenance: "maintenance",
	ProjectOnHold:      "on hold",
	ProjectNotStarted:  "not started",
	ProjectCompleted:   "completed",
	ProjectAbandoned:   "abandoned",
}

// IsValid reports whether s is one of the known statuses.
func (s ProjectStatus) IsValid() bool {
	_, ok := projectStatusNames[s]
	return ok
}

// IsDone reports whether the project no longer needs attention.
func (s ProjectStatus) IsDone() bool {
	return s == ProjectCompleted || s == ProjectAbandoned
}

func (s ProjectStatus) String() string {
	if name, ok := projectStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ProjectCategory groups projects. Categories are densely ordered per user.
type ProjectCategory struct {
	ID        string
	UserID    string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project is listed by creation time and acts as a task container.
type Project struct {
	ID          string
	UserID      string
	CategoryID  *string
	Name        string
	Description string
	Color       string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
