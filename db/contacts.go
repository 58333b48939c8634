// ABOUTME: Contact database operations
// ABOUTME: Counting, filtered listing, and name lookups for the analytics engine
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/models"
)

const contactColumns = "id, name, email, status, company_id, owner_id, created_at, updated_at"

func contactWhere(f analytics.ContactFilter) *whereBuilder {
	wb := &whereBuilder{}
	if !f.Vis.All() {
		wb.add("owner_id = ?", f.Vis.OwnerID)
	}
	if f.Status != "" {
		wb.add("status = ?", string(f.Status))
	}
	if f.CreatedIn != nil {
		wb.window("created_at", *f.CreatedIn)
	}
	if f.CreatedBefore != nil {
		wb.add("created_at < ?", utc(*f.CreatedBefore))
	}
	return wb
}

func (s *Store) CountContacts(ctx context.Context, f analytics.ContactFilter) (int, error) {
	wb := contactWhere(f)
	return s.count(ctx, "SELECT COUNT(*) FROM contacts"+wb.clause(), wb.args...)
}

func (s *Store) FindContacts(ctx context.Context, f analytics.ContactFilter, limit int) ([]models.Contact, error) {
	wb := contactWhere(f)
	query := "SELECT " + contactColumns + " FROM contacts" + wb.clause() + " ORDER BY created_at DESC"
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

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *Store) ContactNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return s.namesByID(ctx, "contacts", ids)
}

func scanContact(rows *sql.Rows) (models.Contact, error) {
	var c models.Contact
	var companyID sql.NullString

	if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Status, &companyID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Contact{}, err
	}
	c.CompanyID = scanNullUUID(companyID)
	return c, nil
}

// CreateContact inserts a contact, assigning id and timestamps when unset.
func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	var companyID *string
	if c.CompanyID != nil {
		str := c.CompanyID.String()
		companyID = &str
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, email, status, company_id, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID.String(), c.Name, c.Email, string(c.Status), companyID, c.OwnerID, utc(c.CreatedAt), utc(c.UpdatedAt))

	return err
}
