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

const slotColumns = `id, user_id, name, sort_order, operation_id, created_at, updated_at`

// SQLiteSlotRepo implements SlotRepo using a SQLite database.
type SQLiteSlotRepo struct {
	db db.DBTX
}

func NewSQLiteSlotRepo(q db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: q}
}

func (r *SQLiteSlotRepo) Create(ctx context.Context, s *domain.Slot) error {
	query := `INSERT INTO slots (` + slotColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Name, s.Order,
		nullableStringToValue(s.OperationID),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}
	return nil
}

func (r *SQLiteSlotRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Slot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ? AND user_id = ?`, id, userID)
	return scanSlot(row)
}

func (r *SQLiteSlotRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Slot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE user_id = ? ORDER BY sort_order, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return collect(rows, "slots", scanSlot)
}

func (r *SQLiteSlotRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return countWhere(ctx, r.db, "slots", "user_id = ?", userID)
}

func (r *SQLiteSlotRepo) Update(ctx context.Context, s *domain.Slot) error {
	_, err := r.db.ExecContext(ctx, `UPDATE slots SET name = ?, updated_at = ? WHERE id = ?`,
		s.Name, formatTime(s.UpdatedAt), s.ID)
	if err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}
	return nil
}

func (r *SQLiteSlotRepo) SetActiveOperation(ctx context.Context, slotID string, operationID *string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE slots SET operation_id = ?, updated_at = ? WHERE id = ?`,
		nullableStringToValue(operationID), formatTime(now), slotID)
	if err != nil {
		return fmt.Errorf("setting active operation: %w", err)
	}
	return nil
}

func (r *SQLiteSlotRepo) SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return bulkSetInt(ctx, r.db, "slots", "sort_order", assignments, now)
}

func (r *SQLiteSlotRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "slots", "slot", id)
}

func scanSlot(s scanner) (*domain.Slot, error) {
	var sl domain.Slot
	var opID sql.NullString
	var createdStr, updatedStr string

	if err := s.Scan(&sl.ID, &sl.UserID, &sl.Name, &sl.Order, &opID, &createdStr, &updatedStr); err != nil {
		return nil, scanErr("slot", err)
	}
	sl.OperationID = parseNullableString(opID)
	if err := parseTimestamps(createdStr, updatedStr, &sl.CreatedAt, &sl.UpdatedAt); err != nil {
		return nil, err
	}
	return &sl, nil
}
