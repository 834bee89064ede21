package domain

import "time"

// GoalCategory is a per-user ordered container of goals.
type GoalCategory struct {
	ID        string
	UserID    string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Goal is ordered within its category and may move between categories of
// the same user.
type Goal struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Order       int
	Completed   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Toggle returns a copy of g with its completion flipped.
func (g Goal) Toggle(now time.Time) Goal {
	if g.Completed != nil {
		g.Completed = nil
	} else {
		g.Completed = &now
	}
	g.UpdatedAt = now
	return g
}
