package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
)

const categoryColumns = `id, user_id, name, sort_order, created_at, updated_at`

// category is the shared row shape of project_categories and goal_categories.
type category struct {
	ID        string
	UserID    string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// categoryStore holds the SQL common to both per-user category tables.
type categoryStore struct {
	db     db.DBTX
	table  string
	entity string
}

func (s categoryStore) create(ctx context.Context, c category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, s.table, categoryColumns)
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Order, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting %s: %w", s.entity, err)
	}
	return nil
}

func (s categoryStore) getForUser(ctx context.Context, userID, id string) (*category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND user_id = ?`, categoryColumns, s.table)
	return s.scan(s.db.QueryRowContext(ctx, query, id, userID))
}

func (s categoryStore) listByUser(ctx context.Context, userID string) ([]*category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY sort_order, created_at`, categoryColumns, s.table)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.table, err)
	}
	return collect(rows, s.table, s.scan)
}

func (s categoryStore) countByUser(ctx context.Context, userID string) (int, error) {
	return countWhere(ctx, s.db, s.table, "user_id = ?", userID)
}

func (s categoryStore) rename(ctx context.Context, id, name string, now time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET name = ?, updated_at = ? WHERE id = ?`, s.table)
	if _, err := s.db.ExecContext(ctx, query, name, formatTime(now), id); err != nil {
		return fmt.Errorf("updating %s: %w", s.entity, err)
	}
	return nil
}

func (s categoryStore) setOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return bulkSetInt(ctx, s.db, s.table, "sort_order", assignments, now)
}

func (s categoryStore) delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, s.table, s.entity, id)
}

func (s categoryStore) scan(sc scanner) (*category, error) {
	var c category
	var createdStr, updatedStr string
	if err := sc.Scan(&c.ID, &c.UserID, &c.Name, &c.Order, &createdStr, &updatedStr); err != nil {
		return nil, scanErr(s.entity, err)
	}
	if err := parseTimestamps(createdStr, updatedStr, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// SQLiteProjectCategoryRepo implements ProjectCategoryRepo.
type SQLiteProjectCategoryRepo struct {
	store categoryStore
}

func NewSQLiteProjectCategoryRepo(q db.DBTX) *SQLiteProjectCategoryRepo {
	return &SQLiteProjectCategoryRepo{store: categoryStore{db: q, table: "project_categories", entity: "project category"}}
}

func (r *SQLiteProjectCategoryRepo) Create(ctx context.Context, c *domain.ProjectCategory) error {
	return r.store.create(ctx, category(*c))
}

func (r *SQLiteProjectCategoryRepo) GetForUser(ctx context.Context, userID, id string) (*domain.ProjectCategory, error) {
	c, err := r.store.getForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	pc := domain.ProjectCategory(*c)
	return &pc, nil
}

func (r *SQLiteProjectCategoryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.ProjectCategory, error) {
	rows, err := r.store.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ProjectCategory, len(rows))
	for i, c := range rows {
		pc := domain.ProjectCategory(*c)
		out[i] = &pc
	}
	return out, nil
}

func (r *SQLiteProjectCategoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return r.store.countByUser(ctx, userID)
}

func (r *SQLiteProjectCategoryRepo) Update(ctx context.Context, c *domain.ProjectCategory) error {
	return r.store.rename(ctx, c.ID, c.Name, c.UpdatedAt)
}

func (r *SQLiteProjectCategoryRepo) SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return r.store.setOrders(ctx, assignments, now)
}

func (r *SQLiteProjectCategoryRepo) Delete(ctx context.Context, id string) error {
	return r.store.delete(ctx, id)
}

// SQLiteGoalCategoryRepo implements GoalCategoryRepo.
type SQLiteGoalCategoryRepo struct {
	store categoryStore
}

func NewSQLiteGoalCategoryRepo(q db.DBTX) *SQLiteGoalCategoryRepo {
	return &SQLiteGoalCategoryRepo{store: categoryStore{db: q, table: "goal_categories", entity: "goal category"}}
}

func (r *SQLiteGoalCategoryRepo) Create(ctx context.Context, c *domain.GoalCategory) error {
	return r.store.create(ctx, category(*c))
}

func (r *SQLiteGoalCategoryRepo) GetForUser(ctx context.Context, userID, id string) (*domain.GoalCategory, error) {
	c, err := r.store.getForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	gc := domain.GoalCategory(*c)
	return &gc, nil
}

func (r *SQLiteGoalCategoryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.GoalCategory, error) {
	rows, err := r.store.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GoalCategory, len(rows))
	for i, c := range rows {
		gc := domain.GoalCategory(*c)
		out[i] = &gc
	}
	return out, nil
}

func (r *SQLiteGoalCategoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return r.store.countByUser(ctx, userID)
}

func (r *SQLiteGoalCategoryRepo) Update(ctx context.Context, c *domain.GoalCategory) error {
	return r.store.rename(ctx, c.ID, c.Name, c.UpdatedAt)
}

func (r *SQLiteGoalCategoryRepo) SetOrders(ctx context.Context, assignments []ordering.Assignment, now time.Time) error {
	return r.store.setOrders(ctx, assignments, now)
}

func (r *SQLiteGoalCategoryRepo) Delete(ctx context.Context, id string) error {
	return r.store.delete(ctx, id)
}
