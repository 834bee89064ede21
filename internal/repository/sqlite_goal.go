package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
)

const goalColumns = `g.id, g.category_id, g.name, g.description, g.sort_order, g.completed, g.created_at, g.updated_at`

// SQLiteGoalRepo implements GoalRepo using a SQLite database.
type SQLiteGoalRepo struct {
	db db.DBTX
}

func NewSQLiteGoalRepo(q db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: q}
}

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (id, category_id, name, description, sort_order, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.CategoryID, g.Name, g.Description, g.Order,
		nullableTimeToString(g.Completed, timeLayout),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals g
		JOIN goal_categories c ON c.id = g.category_id
		WHERE g.id = ? AND c.user_id = ?`
	return scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteGoalRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals g WHERE g.category_id = ? ORDER BY g.sort_order, g.created_at`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return collect(rows, "goals", scanGoal)
}

func (r *SQLiteGoalRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return countWhere(ctx, r.db, "goals", "category_id = ?", categoryID)
}

func (r *SQLiteGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		g.Name, g.Description, nullableTimeToString(g.Completed, timeLayout), formatTime(g.UpdatedAt), g.ID)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) Relocate(ctx context.Context, id, categoryID string, order int, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE goals SET category_id = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		categoryID, order, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("relocating goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return bulkSetInt(ctx, r.db, "goals", "sort_order", assignments, now)
}

func (r *SQLiteGoalRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "goals", "goal", id)
}

func scanGoal(s scanner) (*domain.Goal, error) {
	var g domain.Goal
	var completed sql.NullString
	var createdStr, updatedStr string

	if err := s.Scan(&g.ID, &g.CategoryID, &g.Name, &g.Description, &g.Order, &completed, &createdStr, &updatedStr); err != nil {
		return nil, scanErr("goal", err)
	}
	g.Completed = parseNullableTime(completed, timeLayout)
	if err := parseTimestamps(createdStr, updatedStr, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
