// ABOUTME: Company database operations
// ABOUTME: Counting and name lookups for ranking and dashboard stats
package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/models"
)

func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM companies")
}

func (s *Store) CompanyNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return s.namesByID(ctx, "companies", ids)
}

// CreateCompany inserts a company, assigning id and timestamps when unset.
func (s *Store) CreateCompany(ctx context.Context, c *models.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, industry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID.String(), c.Name, c.Industry, utc(c.CreatedAt), utc(c.UpdatedAt))

	return err
}
