package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so the
// whole list is replayed on each start; ALTER TABLE additions that already
// exist are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL COLLATE NOCASE UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS slots (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		operation_id TEXT REFERENCES operations(id) ON DELETE SET NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_slots_user ON slots(user_id, sort_order)`,

	// sort_order is NULL once an operation leaves the future partition.
	`CREATE TABLE IF NOT EXISTS operations (
		id          TEXT PRIMARY KEY,
		slot_id     TEXT NOT NULL REFERENCES slots(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER,
		position    INTEGER NOT NULL DEFAULT 0,
		started     TEXT,
		completed   TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_operations_slot ON operations(slot_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS project_categories (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_project_categories_user ON project_categories(user_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id TEXT REFERENCES project_categories(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#808080',
		status      INTEGER NOT NULL DEFAULT 4 CHECK(status BETWEEN 1 AND 6),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		operation_id TEXT REFERENCES operations(id) ON DELETE CASCADE,
		project_id   TEXT REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		completed    TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		CHECK((operation_id IS NULL) <> (project_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_operation ON tasks(operation_id, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS goal_categories (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goal_categories_user ON goal_categories(user_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		category_id TEXT NOT NULL REFERENCES goal_categories(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		completed   TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goals_category ON goals(category_id, sort_order)`,

	// Account settings and login tracking.
	`ALTER TABLE users ADD COLUMN default_project_grouping TEXT NOT NULL DEFAULT 'none'
		CHECK(default_project_grouping IN ('none','category','status'))`,
	`ALTER TABLE users ADD COLUMN show_done_projects INTEGER NOT NULL DEFAULT 1`,
	`ALTER TABLE users ADD COLUMN last_login TEXT`,
}
