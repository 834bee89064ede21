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

const operationColumns = `o.id, o.slot_id, o.name, o.description, o.sort_order, o.position,
	o.started, o.completed, o.created_at, o.updated_at`

// SQLiteOperationRepo implements OperationRepo using a SQLite database.
type SQLiteOperationRepo struct {
	db db.DBTX
}

func NewSQLiteOperationRepo(q db.DBTX) *SQLiteOperationRepo {
	return &SQLiteOperationRepo{db: q}
}

func (r *SQLiteOperationRepo) Create(ctx context.Context, o *domain.Operation) error {
	query := `INSERT INTO operations (id, slot_id, name, description, sort_order, position,
		started, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.SlotID, o.Name, o.Description,
		nullableIntToValue(o.Order), o.Position,
		nullableTimeToString(o.Started, dateLayout),
		nullableTimeToString(o.Completed, dateLayout),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting operation: %w", err)
	}
	return nil
}

func (r *SQLiteOperationRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations o
		JOIN slots s ON s.id = o.slot_id
		WHERE o.id = ? AND s.user_id = ?`
	return scanOperation(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteOperationRepo) ListBySlot(ctx context.Context, slotID string) ([]*domain.Operation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+operationColumns+` FROM operations o
		WHERE o.slot_id = ? ORDER BY o.position, o.created_at`, slotID)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return collect(rows, "operations", scanOperation)
}

func (r *SQLiteOperationRepo) CountFuture(ctx context.Context, slotID string) (int, error) {
	return countWhere(ctx, r.db, "operations", "slot_id = ? AND started IS NULL", slotID)
}

func (r *SQLiteOperationRepo) Update(ctx context.Context, o *domain.Operation) error {
	query := `UPDATE operations SET name = ?, description = ?, sort_order = ?, started = ?, completed = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		o.Name, o.Description,
		nullableIntToValue(o.Order),
		nullableTimeToString(o.Started, dateLayout),
		nullableTimeToString(o.Completed, dateLayout),
		formatTime(o.UpdatedAt),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating operation: %w", err)
	}
	return nil
}

func (r *SQLiteOperationRepo) Relocate(ctx context.Context, id, slotID string, order int, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE operations SET slot_id = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		slotID, order, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("relocating operation: %w", err)
	}
	return nil
}

func (r *SQLiteOperationRepo) Reindex(ctx context.Context, orders, positions []ordering.Assignment, now time.Time) error {
	return bulkSet(ctx, r.db, "operations", now,
		columnPlan{column: "sort_order", assignments: orders},
		columnPlan{column: "position", assignments: positions},
	)
}

func (r *SQLiteOperationRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "operations", "operation", id)
}

func scanOperation(s scanner) (*domain.Operation, error) {
	var o domain.Operation
	var order sql.NullInt64
	var started, completed sql.NullString
	var createdStr, updatedStr string

	if err := s.Scan(
		&o.ID, &o.SlotID, &o.Name, &o.Description, &order, &o.Position,
		&started, &completed, &createdStr, &updatedStr,
	); err != nil {
		return nil, scanErr("operation", err)
	}
	o.Order = parseNullableInt(order)
	o.Started = parseNullableTime(started, dateLayout)
	o.Completed = parseNullableTime(completed, dateLayout)
	if err := parseTimestamps(createdStr, updatedStr, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
