// ABOUTME: Task database operations
// ABOUTME: Counting and filtered listing with due-date ordering for upcoming lists
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/models"
)

const taskColumns = "id, title, priority, completed, due_date, completed_at, contact_id, owner_id, created_at"

func taskWhere(f analytics.TaskFilter) *whereBuilder {
	wb := &whereBuilder{}
	if !f.Vis.All() {
		wb.add("owner_id = ?", f.Vis.OwnerID)
	}
	if f.Completed != nil {
		wb.add("completed = ?", *f.Completed)
	}
	if f.CreatedIn != nil {
		wb.window("created_at", *f.CreatedIn)
	}
	if f.DueIn != nil {
		wb.window("due_date", *f.DueIn)
	}
	if f.DueBefore != nil {
		wb.add("due_date IS NOT NULL AND due_date < ?", utc(*f.DueBefore))
	}
	return wb
}

func (s *Store) CountTasks(ctx context.Context, f analytics.TaskFilter) (int, error) {
	wb := taskWhere(f)
	return s.count(ctx, "SELECT COUNT(*) FROM tasks"+wb.clause(), wb.args...)
}

func (s *Store) FindTasks(ctx context.Context, f analytics.TaskFilter, limit int) ([]models.Task, error) {
	wb := taskWhere(f)
	order := " ORDER BY created_at DESC"
	if f.OrderByDue {
		// NULL due dates sort last so dated tasks lead the upcoming list
		order = " ORDER BY due_date IS NULL, due_date ASC"
	}
	query := "SELECT " + taskColumns + " FROM tasks" + wb.clause() + order
	args := wb.args
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(rows *sql.Rows) (models.Task, error) {
	var t models.Task
	var contactID sql.NullString

	if err := rows.Scan(&t.ID, &t.Title, &t.Priority, &t.Completed, &t.DueDate, &t.CompletedAt,
		&contactID, &t.OwnerID, &t.CreatedAt); err != nil {
		return models.Task{}, err
	}
	t.ContactID = scanNullUUID(contactID)
	return t, nil
}

// CreateTask inserts a task, assigning id and timestamp when unset.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	var contactID *string
	if t.ContactID != nil {
		str := t.ContactID.String()
		contactID = &str
	}
	var due, completedAt *time.Time
	if t.DueDate != nil {
		tm := utc(*t.DueDate)
		due = &tm
	}
	if t.CompletedAt != nil {
		tm := utc(*t.CompletedAt)
		completedAt = &tm
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, priority, completed, due_date, completed_at, contact_id, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID.String(), t.Title, string(t.Priority), t.Completed, due, completedAt, contactID, t.OwnerID, utc(t.CreatedAt))

	return err
}
