package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
)

const userColumns = `id, email, name, password_hash, default_project_grouping, show_done_projects,
	last_login, created_at, updated_at`

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(q db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: q}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		domain.NormalizeEmail(u.Email),
		u.Name,
		u.PasswordHash,
		string(u.DefaultProjectGrouping),
		boolToInt(u.ShowDoneProjects),
		nullableTimeToString(u.LastLogin, timeLayout),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email))
	return scanUser(row)
}

func (r *SQLiteUserRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	n, err := countWhere(ctx, r.db, "users", "email = ? AND id != ?", domain.NormalizeEmail(email), exceptID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = ?, name = ?, default_project_grouping = ?, show_done_projects = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		domain.NormalizeEmail(u.Email),
		u.Name,
		string(u.DefaultProjectGrouping),
		boolToInt(u.ShowDoneProjects),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) SetPassword(ctx context.Context, id, hash string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("recording login: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "users", "user", id)
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var grouping, createdStr, updatedStr string
	var showDone int
	var lastLogin sql.NullString

	if err := s.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &grouping, &showDone,
		&lastLogin, &createdStr, &updatedStr,
	); err != nil {
		return nil, scanErr("user", err)
	}

	u.DefaultProjectGrouping = domain.ProjectGrouping(grouping)
	u.ShowDoneProjects = intToBool(showDone)
	u.LastLogin = parseNullableTime(lastLogin, timeLayout)
	if err := parseTimestamps(createdStr, updatedStr, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
