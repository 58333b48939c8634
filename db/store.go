// ABOUTME: Store wiring the SQLite database to the analytics data-source facade
// ABOUTME: Shared WHERE-clause builder and scan helpers for the per-entity files
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/analytics"
)

// Store implements analytics.DataSource over a SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// utc normalizes a time for storage and comparison. All DATETIME values
// in the database are UTC; mixed offsets would break text comparison.
func utc(t time.Time) time.Time {
	return t.UTC()
}

// whereBuilder accumulates AND-joined predicates and their arguments.
type whereBuilder struct {
	preds []string
	args  []any
}

func (w *whereBuilder) add(pred string, args ...any) {
	w.preds = append(w.preds, pred)
	w.args = append(w.args, args...)
}

// window adds the half-open [Start, End) predicates for col.
func (w *whereBuilder) window(col string, win analytics.Window) {
	w.add(col+" >= ?", utc(win.Start))
	w.add(col+" < ?", utc(win.End))
}

// clause renders the accumulated predicates, or "" when there are none.
func (w *whereBuilder) clause() string {
	if len(w.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.preds, " AND ")
}

// placeholders renders "?, ?, ?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// count runs a COUNT(*) query and scans the single row.
func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// namesByID runs "SELECT id, name FROM <table> WHERE id IN (...)" for a
// deduplicated id set. Missing ids simply have no map entry.
func (s *Store) namesByID(ctx context.Context, table string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		args = append(args, id.String())
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM "+table+" WHERE id IN ("+placeholders(len(args))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// scanNullUUID parses an optional TEXT uuid column.
func scanNullUUID(ns sql.NullString) *uuid.UUID {
	if !ns.Valid {
		return nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil
	}
	return &id
}
