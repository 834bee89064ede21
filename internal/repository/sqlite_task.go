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

const taskColumns = `t.id, t.name, t.operation_id, t.project_id, t.sort_order, t.completed, t.created_at, t.updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(q db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: q}
}

// containerColumn returns the tasks column referencing c.
func containerColumn(c domain.TaskContainer) (string, error) {
	switch c.Kind {
	case domain.ContainerOperation:
		return "operation_id", nil
	case domain.ContainerProject:
		return "project_id", nil
	}
	return "", fmt.Errorf("unknown task container kind %q", c.Kind)
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, name, operation_id, project_id, sort_order, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name,
		nullableStringToValue(t.OperationID),
		nullableStringToValue(t.ProjectID),
		t.Order,
		nullableTimeToString(t.Completed, timeLayout),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t
		LEFT JOIN operations o ON o.id = t.operation_id
		LEFT JOIN slots s ON s.id = o.slot_id
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.id = ? AND (s.user_id = ? OR p.user_id = ?)`
	return scanTask(r.db.QueryRowContext(ctx, query, id, userID, userID))
}

func (r *SQLiteTaskRepo) ListByContainer(ctx context.Context, c domain.TaskContainer) ([]*domain.Task, error) {
	col, err := containerColumn(c)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.`+col+` = ? ORDER BY t.sort_order, t.created_at`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return collect(rows, "tasks", scanTask)
}

func (r *SQLiteTaskRepo) CountByContainer(ctx context.Context, c domain.TaskContainer) (int, error) {
	col, err := containerColumn(c)
	if err != nil {
		return 0, err
	}
	return countWhere(ctx, r.db, "tasks", col+" = ?", c.ID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET name = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Name, nullableTimeToString(t.Completed, timeLayout), formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// Relocate moves a task to c with the given order in one statement.
func (r *SQLiteTaskRepo) Relocate(ctx context.Context, id string, c domain.TaskContainer, order int, now time.Time) error {
	var opID, projectID any
	switch c.Kind {
	case domain.ContainerOperation:
		opID = c.ID
	case domain.ContainerProject:
		projectID = c.ID
	default:
		return fmt.Errorf("unknown task container kind %q", c.Kind)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET operation_id = ?, project_id = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		opID, projectID, order, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("relocating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return bulkSetInt(ctx, r.db, "tasks", "sort_order", assignments, now)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "tasks", "task", id)
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var opID, projectID, completed sql.NullString
	var createdStr, updatedStr string

	if err := s.Scan(&t.ID, &t.Name, &opID, &projectID, &t.Order, &completed, &createdStr, &updatedStr); err != nil {
		return nil, scanErr("task", err)
	}
	t.OperationID = parseNullableString(opID)
	t.ProjectID = parseNullableString(projectID)
	t.Completed = parseNullableTime(completed, timeLayout)
	if err := parseTimestamps(createdStr, updatedStr, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
