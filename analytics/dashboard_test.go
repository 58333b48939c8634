// ABOUTME: Tests for the dashboard composer
// ABOUTME: Covers totals, cumulative growth seeding, task buckets, and recent lists
package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/models"
)

func dashboardNow() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestBuildDashboardContactGrowth(t *testing.T) {
	now := dashboardNow()
	var contacts []models.Contact
	// 5 contacts well before the growth window
	for i := 0; i < 5; i++ {
		contacts = append(contacts, models.Contact{
			ID: uuid.New(), Status: models.ContactLead,
			CreatedAt: now.AddDate(0, -6, 0),
		})
	}
	// 2 in-window contacts on known days
	contacts = append(contacts,
		models.Contact{ID: uuid.New(), Status: models.ContactCustomer,
			CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		models.Contact{ID: uuid.New(), Status: models.ContactLead,
			CreatedAt: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)},
	)

	d, err := newTestEngine(&stubSource{contacts: contacts}).
		BuildDashboard(context.Background(), DashboardParams{Now: now})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}

	if len(d.ContactGrowth) != 30 {
		t.Fatalf("Growth series is dense over 30 days, got %d points", len(d.ContactGrowth))
	}
	// seeded with the pre-window total, not zero
	if d.ContactGrowth[0].Total != 5 {
		t.Errorf("First point should carry the baseline of 5, got %d", d.ContactGrowth[0].Total)
	}
	last := d.ContactGrowth[len(d.ContactGrowth)-1]
	if last.Total != 7 {
		t.Errorf("Last point should be cumulative 7, got %d", last.Total)
	}
	if last.Date != "2024-03-15" {
		t.Errorf("Last point should be today, got %s", last.Date)
	}

	if d.TotalContacts != 7 || d.TotalCustomers != 1 || d.NewContactsLast30Days != 2 {
		t.Errorf("Contact totals wrong: %d total, %d customers, %d new",
			d.TotalContacts, d.TotalCustomers, d.NewContactsLast30Days)
	}
}

func TestBuildDashboardDealStats(t *testing.T) {
	now := dashboardNow()
	created := now.AddDate(0, 0, -10)
	src := &stubSource{
		deals: []models.Deal{
			{ID: uuid.New(), Value: 500, Stage: models.StageProposal, Status: models.DealOpen, CreatedAt: created},
			{ID: uuid.New(), Value: 300, Stage: models.StageProposal, Status: models.DealOpen, CreatedAt: created},
			wonDeal(1000, created, now.AddDate(0, 0, -2)),
			{ID: uuid.New(), Value: 400, Stage: models.StageClosedLost, Status: models.DealLost,
				CreatedAt: created, ActualCloseDate: ptr(now.AddDate(0, 0, -1))},
		},
	}

	d, err := newTestEngine(src).BuildDashboard(context.Background(), DashboardParams{Now: now})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}

	if d.TotalDeals != 4 || d.OpenDeals != 2 || d.WonDeals != 1 || d.LostDeals != 1 {
		t.Errorf("Deal counts wrong: total %d open %d won %d lost %d",
			d.TotalDeals, d.OpenDeals, d.WonDeals, d.LostDeals)
	}
	if d.OpenPipelineValue != 800 || d.WonDealsValue != 1000 {
		t.Errorf("Pipeline values wrong: open %d won %d", d.OpenPipelineValue, d.WonDealsValue)
	}
	if d.WinRate != 50 {
		t.Errorf("Expected win rate 50, got %v", d.WinRate)
	}
	if d.AverageDealSize != 1000 {
		t.Errorf("Expected average deal size 1000, got %v", d.AverageDealSize)
	}

	if len(d.PipelineByStage) != 6 {
		t.Fatalf("Pipeline is exhaustive over 6 stages, got %d", len(d.PipelineByStage))
	}
	for _, s := range d.PipelineByStage {
		switch s.Stage {
		case models.StageProposal:
			if s.Count != 2 || s.Value != 800 {
				t.Errorf("Proposal stage: expected 2/800, got %+v", s)
			}
		case models.StageClosedWon:
			// closed deals are out of the pipeline
			if s.Count != 0 {
				t.Errorf("Won deals should not appear in the open pipeline: %+v", s)
			}
		}
	}
}

func TestBuildDashboardTaskBuckets(t *testing.T) {
	now := dashboardNow()
	src := &stubSource{
		tasks: []models.Task{
			{ID: uuid.New(), Priority: models.PriorityHigh, Completed: true,
				CreatedAt: now.AddDate(0, 0, -5), CompletedAt: ptr(now.AddDate(0, 0, -4))},
			// overdue: incomplete and due yesterday
			{ID: uuid.New(), Priority: models.PriorityHigh,
				CreatedAt: now.AddDate(0, 0, -5), DueDate: ptr(now.AddDate(0, 0, -1))},
			// due later today
			{ID: uuid.New(), Priority: models.PriorityMedium,
				CreatedAt: now.AddDate(0, 0, -5), DueDate: ptr(now.Add(5 * time.Hour))},
			// due next week
			{ID: uuid.New(), Priority: models.PriorityLow,
				CreatedAt: now.AddDate(0, 0, -5), DueDate: ptr(now.AddDate(0, 0, 7))},
		},
	}

	d, err := newTestEngine(src).BuildDashboard(context.Background(), DashboardParams{Now: now})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}

	if d.TotalTasks != 4 || d.CompletedTasks != 1 {
		t.Errorf("Task totals wrong: %d total, %d completed", d.TotalTasks, d.CompletedTasks)
	}
	if d.OverdueTasks != 1 {
		t.Errorf("Expected 1 overdue task, got %d", d.OverdueTasks)
	}
	if d.DueTodayTasks != 1 {
		t.Errorf("Expected 1 task due today, got %d", d.DueTodayTasks)
	}
	if d.TaskCompletionRate != 25 {
		t.Errorf("Expected completion rate 25, got %v", d.TaskCompletionRate)
	}
	if len(d.UpcomingTasks) != 3 {
		t.Errorf("Expected 3 incomplete tasks in upcoming list, got %d", len(d.UpcomingTasks))
	}
}

func TestBuildDashboardRecentListsCapped(t *testing.T) {
	now := dashboardNow()
	src := &stubSource{}
	for i := 0; i < 12; i++ {
		src.contacts = append(src.contacts, models.Contact{
			ID: uuid.New(), Status: models.ContactLead, CreatedAt: now.AddDate(0, 0, -i),
		})
	}

	d, err := newTestEngine(src).BuildDashboard(context.Background(), DashboardParams{Now: now})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}
	if len(d.RecentContacts) != 5 {
		t.Errorf("Recent contacts capped at 5, got %d", len(d.RecentContacts))
	}
}

func TestBuildDashboardFailsWhole(t *testing.T) {
	src := &stubSource{failOn: "AggregateDeals"}
	d, err := newTestEngine(src).BuildDashboard(context.Background(), DashboardParams{Now: dashboardNow()})
	if err == nil {
		t.Error("Failure in a sub-aggregation should fail the whole dashboard")
	}
	if d != nil {
		t.Error("Failed dashboard should be nil")
	}
}
