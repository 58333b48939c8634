// ABOUTME: In-memory DataSource fake for composer tests
// ABOUTME: Honors filters over fixture slices and can fail on a named method
package analytics

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/models"
)

var errStub = errors.New("stub failure")

type stubSource struct {
	contacts   []models.Contact
	companies  map[uuid.UUID]string
	deals      []models.Deal
	history    []models.DealStageHistory
	activities []models.Activity
	tasks      []models.Task

	failOn string
}

func (s *stubSource) fail(method string) error {
	if s.failOn == method {
		return errStub
	}
	return nil
}

func contactMatches(c models.Contact, f ContactFilter) bool {
	if !f.Vis.All() && c.OwnerID != f.Vis.OwnerID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.CreatedIn != nil && !f.CreatedIn.Contains(c.CreatedAt) {
		return false
	}
	if f.CreatedBefore != nil && !c.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	return true
}

func dealMatches(d models.Deal, f DealFilter) bool {
	if !f.Vis.All() && d.OwnerID != f.Vis.OwnerID {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, st := range f.Statuses {
			if d.Status == st {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	if f.CreatedIn != nil && !f.CreatedIn.Contains(d.CreatedAt) {
		return false
	}
	if f.ClosedIn != nil && (d.ActualCloseDate == nil || !f.ClosedIn.Contains(*d.ActualCloseDate)) {
		return false
	}
	return true
}

func activityMatches(a models.Activity, f ActivityFilter) bool {
	if !f.Vis.All() && a.OwnerID != f.Vis.OwnerID {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.CreatedIn != nil && !f.CreatedIn.Contains(a.CreatedAt) {
		return false
	}
	return true
}

func taskMatches(t models.Task, f TaskFilter) bool {
	if !f.Vis.All() && t.OwnerID != f.Vis.OwnerID {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.CreatedIn != nil && !f.CreatedIn.Contains(t.CreatedAt) {
		return false
	}
	if f.DueIn != nil && (t.DueDate == nil || !f.DueIn.Contains(*t.DueDate)) {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*f.DueBefore)) {
		return false
	}
	return true
}

func clip[T any](records []T, limit int) []T {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

func (s *stubSource) CountContacts(_ context.Context, f ContactFilter) (int, error) {
	if err := s.fail("CountContacts"); err != nil {
		return 0, err
	}
	n := 0
	for _, c := range s.contacts {
		if contactMatches(c, f) {
			n++
		}
	}
	return n, nil
}

func (s *stubSource) FindContacts(_ context.Context, f ContactFilter, limit int) ([]models.Contact, error) {
	if err := s.fail("FindContacts"); err != nil {
		return nil, err
	}
	var out []models.Contact
	for _, c := range s.contacts {
		if contactMatches(c, f) {
			out = append(out, c)
		}
	}
	return clip(out, limit), nil
}

func (s *stubSource) ContactNames(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]string, error) {
	if err := s.fail("ContactNames"); err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string)
	for _, c := range s.contacts {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *stubSource) CountCompanies(_ context.Context) (int, error) {
	if err := s.fail("CountCompanies"); err != nil {
		return 0, err
	}
	return len(s.companies), nil
}

func (s *stubSource) CompanyNames(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]string, error) {
	if err := s.fail("CompanyNames"); err != nil {
		return nil, err
	}
	return s.companies, nil
}

func (s *stubSource) CountDeals(_ context.Context, f DealFilter) (int, error) {
	if err := s.fail("CountDeals"); err != nil {
		return 0, err
	}
	n := 0
	for _, d := range s.deals {
		if dealMatches(d, f) {
			n++
		}
	}
	return n, nil
}

func (s *stubSource) FindDeals(_ context.Context, f DealFilter, limit int) ([]models.Deal, error) {
	if err := s.fail("FindDeals"); err != nil {
		return nil, err
	}
	var out []models.Deal
	for _, d := range s.deals {
		if dealMatches(d, f) {
			out = append(out, d)
		}
	}
	return clip(out, limit), nil
}

func (s *stubSource) AggregateDeals(_ context.Context, f DealFilter) (DealAggregate, error) {
	if err := s.fail("AggregateDeals"); err != nil {
		return DealAggregate{}, err
	}
	var agg DealAggregate
	for _, d := range s.deals {
		if dealMatches(d, f) {
			agg.Count++
			agg.Value += d.Value
		}
	}
	return agg, nil
}

func (s *stubSource) GroupDealsByStage(_ context.Context, f DealFilter) ([]StageCount, error) {
	if err := s.fail("GroupDealsByStage"); err != nil {
		return nil, err
	}
	byStage := make(map[models.DealStage]*StageCount)
	for _, d := range s.deals {
		if !dealMatches(d, f) {
			continue
		}
		sc := byStage[d.Stage]
		if sc == nil {
			sc = &StageCount{Stage: d.Stage}
			byStage[d.Stage] = sc
		}
		sc.Count++
		sc.Value += d.Value
	}
	var out []StageCount
	for _, sc := range byStage {
		out = append(out, *sc)
	}
	return out, nil
}

func (s *stubSource) FindStageHistory(_ context.Context, f StageHistoryFilter) ([]models.DealStageHistory, error) {
	if err := s.fail("FindStageHistory"); err != nil {
		return nil, err
	}
	var out []models.DealStageHistory
	for _, h := range s.history {
		if f.ChangedIn != nil && !f.ChangedIn.Contains(h.ChangedAt) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *stubSource) CountActivities(_ context.Context, f ActivityFilter) (int, error) {
	if err := s.fail("CountActivities"); err != nil {
		return 0, err
	}
	n := 0
	for _, a := range s.activities {
		if activityMatches(a, f) {
			n++
		}
	}
	return n, nil
}

func (s *stubSource) FindActivities(_ context.Context, f ActivityFilter, limit int) ([]models.Activity, error) {
	if err := s.fail("FindActivities"); err != nil {
		return nil, err
	}
	var out []models.Activity
	for _, a := range s.activities {
		if activityMatches(a, f) {
			out = append(out, a)
		}
	}
	return clip(out, limit), nil
}

func (s *stubSource) GroupActivitiesByType(_ context.Context, f ActivityFilter) ([]TypeCount, error) {
	if err := s.fail("GroupActivitiesByType"); err != nil {
		return nil, err
	}
	byType := make(map[models.ActivityType]int)
	for _, a := range s.activities {
		if activityMatches(a, f) {
			byType[a.Type]++
		}
	}
	var out []TypeCount
	for typ, n := range byType {
		out = append(out, TypeCount{Type: typ, Count: n})
	}
	return out, nil
}

func (s *stubSource) CountTasks(_ context.Context, f TaskFilter) (int, error) {
	if err := s.fail("CountTasks"); err != nil {
		return 0, err
	}
	n := 0
	for _, t := range s.tasks {
		if taskMatches(t, f) {
			n++
		}
	}
	return n, nil
}

func (s *stubSource) FindTasks(_ context.Context, f TaskFilter, limit int) ([]models.Task, error) {
	if err := s.fail("FindTasks"); err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range s.tasks {
		if taskMatches(t, f) {
			out = append(out, t)
		}
	}
	return clip(out, limit), nil
}
