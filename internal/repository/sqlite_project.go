package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
)

const projectColumns = `id, user_id, category_id, name, description, color, status, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(q db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: q}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, nullableStringToValue(p.CategoryID),
		p.Name, p.Description, p.Color, int(p.Status),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return collect(rows, "projects", scanProject)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET category_id = ?, name = ?, description = ?, color = ?, status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(p.CategoryID), p.Name, p.Description, p.Color, int(p.Status),
		formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "projects", "project", id)
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var categoryID sql.NullString
	var status int
	var createdStr, updatedStr string

	if err := s.Scan(
		&p.ID, &p.UserID, &categoryID, &p.Name, &p.Description, &p.Color, &status,
		&createdStr, &updatedStr,
	); err != nil {
		return nil, scanErr("project", err)
	}
	p.CategoryID = parseNullableString(categoryID)
	p.Status = domain.ProjectStatus(status)
	if err := parseTimestamps(createdStr, updatedStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
