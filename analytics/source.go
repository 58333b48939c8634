// ABOUTME: Data-access facade and filter types consumed by the analytics engine
// ABOUTME: The engine never reaches into a store directly; it goes through DataSource
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/models"
)

// Visibility restricts reads to records owned by one user. The zero
// value means no restriction. It is supplied by the authorization
// collaborator; the engine only threads it through, never widens it.
type Visibility struct {
	OwnerID string
}

// All reports whether the visibility places no owner restriction.
func (v Visibility) All() bool {
	return v.OwnerID == ""
}

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LastNDays returns the half-open window covering the n local calendar
// days ending with the day containing now, in loc.
func LastNDays(now time.Time, n int, loc *time.Location) Window {
	local := now.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return Window{Start: end.AddDate(0, 0, -n), End: end}
}

type ContactFilter struct {
	Vis           Visibility
	Status        models.ContactStatus // "" = any
	CreatedIn     *Window
	CreatedBefore *time.Time
}

type DealFilter struct {
	Vis       Visibility
	Statuses  []models.DealStatus // nil = any
	CreatedIn *Window
	ClosedIn  *Window // on actual_close_date
}

type StageHistoryFilter struct {
	Vis       Visibility // applied through the owning deal
	ChangedIn *Window
}

type ActivityFilter struct {
	Vis       Visibility
	Type      models.ActivityType // "" = any
	CreatedIn *Window
}

type TaskFilter struct {
	Vis         Visibility
	Completed   *bool
	CreatedIn   *Window
	DueIn       *Window
	DueBefore   *time.Time
	OrderByDue  bool // ascending due date instead of descending created_at
}

// DealAggregate is the result of a count+sum aggregation over deals.
type DealAggregate struct {
	Count int
	Value int64
}

// StageCount is one group-by-stage row.
type StageCount struct {
	Stage models.DealStage
	Count int
	Value int64
}

// TypeCount is one group-by-activity-type row.
type TypeCount struct {
	Type  models.ActivityType
	Count int
}

// DataSource is the read-only facade over the persistent store. Every
// method observes the store at its own read time; the engine composes
// them without cross-call snapshot isolation. Find methods treat a
// non-positive limit as "no limit".
type DataSource interface {
	CountContacts(ctx context.Context, f ContactFilter) (int, error)
	FindContacts(ctx context.Context, f ContactFilter, limit int) ([]models.Contact, error)
	ContactNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	CountCompanies(ctx context.Context) (int, error)
	CompanyNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	CountDeals(ctx context.Context, f DealFilter) (int, error)
	FindDeals(ctx context.Context, f DealFilter, limit int) ([]models.Deal, error)
	AggregateDeals(ctx context.Context, f DealFilter) (DealAggregate, error)
	GroupDealsByStage(ctx context.Context, f DealFilter) ([]StageCount, error)

	FindStageHistory(ctx context.Context, f StageHistoryFilter) ([]models.DealStageHistory, error)

	CountActivities(ctx context.Context, f ActivityFilter) (int, error)
	FindActivities(ctx context.Context, f ActivityFilter, limit int) ([]models.Activity, error)
	GroupActivitiesByType(ctx context.Context, f ActivityFilter) ([]TypeCount, error)

	CountTasks(ctx context.Context, f TaskFilter) (int, error)
	FindTasks(ctx context.Context, f TaskFilter, limit int) ([]models.Task, error)
}
