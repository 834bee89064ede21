package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/ordering"
)

const (
	dateLayout = "2006-01-02"

	// timeLayout is fixed-width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// collect scans every row with scan and closes rows.
func collect[T any](rows *sql.Rows, what string, scan func(scanner) (*T, error)) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return out, nil
}

// scanErr maps sql.ErrNoRows to a NotFound error naming entity.
func scanErr(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity)
	}
	return fmt.Errorf("scanning %s: %w", entity, err)
}

// columnPlan is a set of new values for one integer column.
type columnPlan struct {
	column      string
	assignments []ordering.Assignment
}

// bulkSetInt writes every assignment to column in a single UPDATE using a
// CASE expression keyed by id. An empty plan issues no statement.
func bulkSetInt(ctx context.Context, q db.DBTX, table, column string, assignments []ordering.Assignment, now time.Time) error {
	return bulkSet(ctx, q, table, now, columnPlan{column: column, assignments: assignments})
}

// bulkSet writes several integer columns of one table in a single UPDATE.
// Rows named by only some of the plans keep their other columns through
// the ELSE branch.
func bulkSet(ctx context.Context, q db.DBTX, table string, now time.Time, plans ...columnPlan) error {
	var ids []string
	seen := make(map[string]bool)
	var sets []string
	var args []any

	for _, p := range plans {
		if len(p.assignments) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s = CASE id", p.column)
		for _, a := range p.assignments {
			sb.WriteString(" WHEN ? THEN ?")
			args = append(args, a.ID, a.Order)
			if !seen[a.ID] {
				seen[a.ID] = true
				ids = append(ids, a.ID)
			}
		}
		fmt.Fprintf(&sb, " ELSE %s END", p.column)
		sets = append(sets, sb.String())
	}
	if len(ids) == 0 {
		return nil
	}

	args = append(args, now.UTC().Format(timeLayout))
	for _, id := range ids {
		args = append(args, id)
	}
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = ? WHERE id IN (%s)",
		table, strings.Join(sets, ", "), placeholders(len(ids)))

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk updating %s: %w", table, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// countWhere runs SELECT COUNT(*) FROM table WHERE cond.
func countWhere(ctx context.Context, q db.DBTX, table, cond string, args ...any) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, cond)
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// deleteByID removes one row and reports NotFound when nothing matched.
func deleteByID(ctx context.Context, q db.DBTX, table, entity, id string) error {
	res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", entity, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound(entity)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimestamps(createdStr, updatedStr string, created, updated *time.Time) error {
	var err error
	if *created, err = time.Parse(timeLayout, createdStr); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if *updated, err = time.Parse(timeLayout, updatedStr); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}

// parseNullableTime parses s with layout. NULL, empty and malformed values
// all yield nil.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStringToValue(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func parseNullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func parseNullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
