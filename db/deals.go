// ABOUTME: Deal and stage-history database operations
// ABOUTME: Filtered listing, count+sum aggregation, and group-by-stage rollups
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/models"
)

const dealColumns = "id, title, value, stage, status, contact_id, company_id, owner_id, expected_close_date, actual_close_date, created_at, updated_at"

func dealWhere(f analytics.DealFilter) *whereBuilder {
	wb := &whereBuilder{}
	if !f.Vis.All() {
		wb.add("owner_id = ?", f.Vis.OwnerID)
	}
	if len(f.Statuses) > 0 {
		args := make([]any, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
		wb.add("status IN ("+placeholders(len(args))+")", args...)
	}
	if f.CreatedIn != nil {
		wb.window("created_at", *f.CreatedIn)
	}
	if f.ClosedIn != nil {
		wb.window("actual_close_date", *f.ClosedIn)
	}
	return wb
}

func (s *Store) CountDeals(ctx context.Context, f analytics.DealFilter) (int, error) {
	wb := dealWhere(f)
	return s.count(ctx, "SELECT COUNT(*) FROM deals"+wb.clause(), wb.args...)
}

func (s *Store) FindDeals(ctx context.Context, f analytics.DealFilter, limit int) ([]models.Deal, error) {
	wb := dealWhere(f)
	query := "SELECT " + dealColumns + " FROM deals" + wb.clause() + " ORDER BY created_at DESC"
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

	var deals []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (s *Store) AggregateDeals(ctx context.Context, f analytics.DealFilter) (analytics.DealAggregate, error) {
	wb := dealWhere(f)
	var agg analytics.DealAggregate
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(value), 0) FROM deals"+wb.clause(), wb.args...,
	).Scan(&agg.Count, &agg.Value)
	return agg, err
}

func (s *Store) GroupDealsByStage(ctx context.Context, f analytics.DealFilter) ([]analytics.StageCount, error) {
	wb := dealWhere(f)
	rows, err := s.db.QueryContext(ctx,
		"SELECT stage, COUNT(*), COALESCE(SUM(value), 0) FROM deals"+wb.clause()+" GROUP BY stage", wb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []analytics.StageCount
	for rows.Next() {
		var sc analytics.StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count, &sc.Value); err != nil {
			return nil, err
		}
		groups = append(groups, sc)
	}
	return groups, rows.Err()
}

// FindStageHistory filters transitions by their change time; visibility
// applies through the owning deal.
func (s *Store) FindStageHistory(ctx context.Context, f analytics.StageHistoryFilter) ([]models.DealStageHistory, error) {
	wb := &whereBuilder{}
	if !f.Vis.All() {
		wb.add("d.owner_id = ?", f.Vis.OwnerID)
	}
	if f.ChangedIn != nil {
		wb.window("h.changed_at", *f.ChangedIn)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.deal_id, h.to_stage, h.changed_at
		FROM deal_stage_history h
		JOIN deals d ON d.id = h.deal_id`+wb.clause()+`
		ORDER BY h.deal_id, h.changed_at`, wb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.DealStageHistory
	for rows.Next() {
		var h models.DealStageHistory
		if err := rows.Scan(&h.ID, &h.DealID, &h.ToStage, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func scanDeal(rows *sql.Rows) (models.Deal, error) {
	var d models.Deal
	var companyID sql.NullString

	if err := rows.Scan(&d.ID, &d.Title, &d.Value, &d.Stage, &d.Status, &d.ContactID, &companyID,
		&d.OwnerID, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return models.Deal{}, err
	}
	d.CompanyID = scanNullUUID(companyID)
	return d, nil
}

// CreateDeal inserts a deal. Stage history is recorded separately via
// RecordStageChange so callers control the transition trail.
func (s *Store) CreateDeal(ctx context.Context, d *models.Deal) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}

	var companyID *string
	if d.CompanyID != nil {
		str := d.CompanyID.String()
		companyID = &str
	}
	var expected, actual *time.Time
	if d.ExpectedCloseDate != nil {
		t := utc(*d.ExpectedCloseDate)
		expected = &t
	}
	if d.ActualCloseDate != nil {
		t := utc(*d.ActualCloseDate)
		actual = &t
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deals (id, title, value, stage, status, contact_id, company_id, owner_id, expected_close_date, actual_close_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID.String(), d.Title, d.Value, string(d.Stage), string(d.Status), d.ContactID.String(), companyID,
		d.OwnerID, expected, actual, utc(d.CreatedAt), utc(d.UpdatedAt))
	return err
}

// RecordStageChange appends one transition to a deal's stage history.
func (s *Store) RecordStageChange(ctx context.Context, dealID uuid.UUID, stage models.DealStage, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deal_stage_history (id, deal_id, to_stage, changed_at)
		VALUES (?, ?, ?, ?)
	`, uuid.New().String(), dealID.String(), string(stage), utc(at))
	return err
}
