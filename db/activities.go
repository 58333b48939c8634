// ABOUTME: Activity database operations
// ABOUTME: Counting, filtered listing, and group-by-type rollups
package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/models"
)

const activityColumns = "id, type, subject, contact_id, owner_id, created_at"

func activityWhere(f analytics.ActivityFilter) *whereBuilder {
	wb := &whereBuilder{}
	if !f.Vis.All() {
		wb.add("owner_id = ?", f.Vis.OwnerID)
	}
	if f.Type != "" {
		wb.add("type = ?", string(f.Type))
	}
	if f.CreatedIn != nil {
		wb.window("created_at", *f.CreatedIn)
	}
	return wb
}

func (s *Store) CountActivities(ctx context.Context, f analytics.ActivityFilter) (int, error) {
	wb := activityWhere(f)
	return s.count(ctx, "SELECT COUNT(*) FROM activities"+wb.clause(), wb.args...)
}

func (s *Store) FindActivities(ctx context.Context, f analytics.ActivityFilter, limit int) ([]models.Activity, error) {
	wb := activityWhere(f)
	query := "SELECT " + activityColumns + " FROM activities" + wb.clause() + " ORDER BY created_at DESC"
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

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Subject, &a.ContactID, &a.OwnerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Store) GroupActivitiesByType(ctx context.Context, f analytics.ActivityFilter) ([]analytics.TypeCount, error) {
	wb := activityWhere(f)
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM activities"+wb.clause()+" GROUP BY type", wb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []analytics.TypeCount
	for rows.Next() {
		var tc analytics.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		groups = append(groups, tc)
	}
	return groups, rows.Err()
}

// CreateActivity inserts an activity, assigning id and timestamp when unset.
func (s *Store) CreateActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, type, subject, contact_id, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID.String(), string(a.Type), a.Subject, a.ContactID.String(), a.OwnerID, utc(a.CreatedAt))

	return err
}
