// ABOUTME: Dashboard snapshot composer
// ABOUTME: Fans out the at-a-glance stats and recent-record lists concurrently
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/crmpulse/models"
)

const (
	recentListSize    = 5
	growthWindowDays  = 30
	activityTrendDays = 7
)

// GrowthPoint is one day of the cumulative contact-growth series.
type GrowthPoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// Dashboard is the at-a-glance snapshot of the whole CRM. Unlike a
// report it is not windowed: totals cover all time, trend fields use
// fixed trailing windows ending today.
type Dashboard struct {
	TotalContacts         int           `json:"total_contacts"`
	TotalLeads            int           `json:"total_leads"`
	TotalCustomers        int           `json:"total_customers"`
	NewContactsLast30Days int           `json:"new_contacts_last_30_days"`
	LeadConversionRate    float64       `json:"lead_conversion_rate"`
	ContactGrowth         []GrowthPoint `json:"contact_growth"`

	TotalCompanies int `json:"total_companies"`

	TotalDeals        int              `json:"total_deals"`
	OpenDeals         int              `json:"open_deals"`
	WonDeals          int              `json:"won_deals"`
	LostDeals         int              `json:"lost_deals"`
	OpenPipelineValue int64            `json:"open_pipeline_value"`
	WonDealsValue     int64            `json:"won_deals_value"`
	WinRate           float64          `json:"win_rate"`
	AverageDealSize   float64          `json:"average_deal_size"`
	PipelineByStage   []StageBreakdown `json:"pipeline_by_stage"`

	TotalTasks         int     `json:"total_tasks"`
	CompletedTasks     int     `json:"completed_tasks"`
	OverdueTasks       int     `json:"overdue_tasks"`
	DueTodayTasks      int     `json:"due_today_tasks"`
	TaskCompletionRate float64 `json:"task_completion_rate"`

	TotalActivities     int             `json:"total_activities"`
	ActivitiesToday     int             `json:"activities_today"`
	ActivitiesLast7Days int             `json:"activities_last_7_days"`
	ActivitiesByType    []TypeBreakdown `json:"activities_by_type"`

	RecentContacts   []models.Contact  `json:"recent_contacts"`
	RecentDeals      []models.Deal     `json:"recent_deals"`
	RecentActivities []models.Activity `json:"recent_activities"`
	UpcomingTasks    []models.Task     `json:"upcoming_tasks"`
}

// DashboardParams scope one dashboard request. A zero Now means the
// current time; tests pin it.
type DashboardParams struct {
	Vis Visibility
	Now time.Time
}

// BuildDashboard composes the dashboard snapshot. Like BuildReport it
// is all-or-nothing and carries no cross-stat snapshot isolation.
func (e *Engine) BuildDashboard(ctx context.Context, p DashboardParams) (*Dashboard, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	vis := p.Vis
	last30 := LastNDays(now, growthWindowDays, e.loc)
	last7 := LastNDays(now, activityTrendDays, e.loc)
	today := LastNDays(now, 1, e.loc)

	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	e.spawn(ctx, g, func() error {
		return e.contactStats(ctx, vis, last30, d)
	})
	e.spawn(ctx, g, func() error {
		growth, err := e.contactGrowth(ctx, vis, last30)
		d.ContactGrowth = growth
		return err
	})
	e.spawn(ctx, g, func() error {
		n, err := e.src.CountCompanies(ctx)
		d.TotalCompanies = n
		if err != nil {
			return fmt.Errorf("dashboard companies: %w", err)
		}
		return nil
	})
	e.spawn(ctx, g, func() error {
		return e.dealStats(ctx, vis, d)
	})
	e.spawn(ctx, g, func() error {
		stages, err := e.pipelineByStage(ctx, vis)
		d.PipelineByStage = stages
		return err
	})
	e.spawn(ctx, g, func() error {
		return e.dashboardTaskStats(ctx, vis, now, today, d)
	})
	e.spawn(ctx, g, func() error {
		return e.activityStats(ctx, vis, today, last7, d)
	})
	e.spawn(ctx, g, func() error {
		contacts, err := e.src.FindContacts(ctx, ContactFilter{Vis: vis}, recentListSize)
		d.RecentContacts = contacts
		if err != nil {
			return fmt.Errorf("dashboard recent contacts: %w", err)
		}
		return nil
	})
	e.spawn(ctx, g, func() error {
		deals, err := e.src.FindDeals(ctx, DealFilter{Vis: vis}, recentListSize)
		d.RecentDeals = deals
		if err != nil {
			return fmt.Errorf("dashboard recent deals: %w", err)
		}
		return nil
	})
	e.spawn(ctx, g, func() error {
		activities, err := e.src.FindActivities(ctx, ActivityFilter{Vis: vis}, recentListSize)
		d.RecentActivities = activities
		if err != nil {
			return fmt.Errorf("dashboard recent activities: %w", err)
		}
		return nil
	})
	e.spawn(ctx, g, func() error {
		open := false
		tasks, err := e.src.FindTasks(ctx, TaskFilter{
			Vis: vis, Completed: &open, OrderByDue: true,
		}, recentListSize)
		d.UpcomingTasks = tasks
		if err != nil {
			return fmt.Errorf("dashboard upcoming tasks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (e *Engine) contactStats(ctx context.Context, vis Visibility, last30 Window, d *Dashboard) error {
	total, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis})
	if err != nil {
		return fmt.Errorf("dashboard contacts: %w", err)
	}
	leads, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis, Status: models.ContactLead})
	if err != nil {
		return fmt.Errorf("dashboard leads: %w", err)
	}
	customers, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis, Status: models.ContactCustomer})
	if err != nil {
		return fmt.Errorf("dashboard customers: %w", err)
	}
	recent, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis, CreatedIn: &last30})
	if err != nil {
		return fmt.Errorf("dashboard new contacts: %w", err)
	}

	d.TotalContacts = total
	d.TotalLeads = leads
	d.TotalCustomers = customers
	d.NewContactsLast30Days = recent
	d.LeadConversionRate = SafeRate(float64(customers), float64(total))
	return nil
}

// contactGrowth builds a dense cumulative daily series over the
// trailing 30 days. The series is seeded with the pre-window total so
// day one already shows the real cumulative count, not zero.
func (e *Engine) contactGrowth(ctx context.Context, vis Visibility, w Window) ([]GrowthPoint, error) {
	baseline, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis, CreatedBefore: &w.Start})
	if err != nil {
		return nil, fmt.Errorf("dashboard growth baseline: %w", err)
	}
	contacts, err := e.src.FindContacts(ctx, ContactFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("dashboard growth: %w", err)
	}

	perDay := make(map[string]int, growthWindowDays)
	for _, c := range contacts {
		perDay[localDay(c.CreatedAt, e.loc)]++
	}

	points := make([]GrowthPoint, 0, growthWindowDays)
	running := baseline
	for day := w.Start; day.Before(w.End); day = day.AddDate(0, 0, 1) {
		key := localDay(day, e.loc)
		running += perDay[key]
		points = append(points, GrowthPoint{Date: key, Total: running})
	}
	return points, nil
}

func (e *Engine) dealStats(ctx context.Context, vis Visibility, d *Dashboard) error {
	open, err := e.src.AggregateDeals(ctx, DealFilter{
		Vis: vis, Statuses: []models.DealStatus{models.DealOpen},
	})
	if err != nil {
		return fmt.Errorf("dashboard open deals: %w", err)
	}
	won, err := e.src.AggregateDeals(ctx, DealFilter{
		Vis: vis, Statuses: []models.DealStatus{models.DealWon},
	})
	if err != nil {
		return fmt.Errorf("dashboard won deals: %w", err)
	}
	lost, err := e.src.AggregateDeals(ctx, DealFilter{
		Vis: vis, Statuses: []models.DealStatus{models.DealLost},
	})
	if err != nil {
		return fmt.Errorf("dashboard lost deals: %w", err)
	}

	d.TotalDeals = open.Count + won.Count + lost.Count
	d.OpenDeals = open.Count
	d.WonDeals = won.Count
	d.LostDeals = lost.Count
	d.OpenPipelineValue = open.Value
	d.WonDealsValue = won.Value
	d.WinRate = SafeRate(float64(won.Count), float64(won.Count+lost.Count))
	d.AverageDealSize = 0
	if won.Count > 0 {
		d.AverageDealSize = float64(won.Value) / float64(won.Count)
	}
	return nil
}

// pipelineByStage shows only open deals: won and lost deals have left
// the pipeline.
func (e *Engine) pipelineByStage(ctx context.Context, vis Visibility) ([]StageBreakdown, error) {
	groups, err := e.src.GroupDealsByStage(ctx, DealFilter{
		Vis: vis, Statuses: []models.DealStatus{models.DealOpen},
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard pipeline: %w", err)
	}

	byStage := make(map[models.DealStage]StageCount, len(groups))
	for _, sc := range groups {
		byStage[sc.Stage] = sc
	}
	out := make([]StageBreakdown, 0, len(models.DealStages()))
	for _, stage := range models.DealStages() {
		sc := byStage[stage]
		out = append(out, StageBreakdown{Stage: stage, Count: sc.Count, Value: sc.Value})
	}
	return out, nil
}

func (e *Engine) dashboardTaskStats(ctx context.Context, vis Visibility, now time.Time, today Window, d *Dashboard) error {
	total, err := e.src.CountTasks(ctx, TaskFilter{Vis: vis})
	if err != nil {
		return fmt.Errorf("dashboard tasks: %w", err)
	}
	done := true
	completed, err := e.src.CountTasks(ctx, TaskFilter{Vis: vis, Completed: &done})
	if err != nil {
		return fmt.Errorf("dashboard completed tasks: %w", err)
	}
	open := false
	overdue, err := e.src.CountTasks(ctx, TaskFilter{Vis: vis, Completed: &open, DueBefore: &now})
	if err != nil {
		return fmt.Errorf("dashboard overdue tasks: %w", err)
	}
	dueToday, err := e.src.CountTasks(ctx, TaskFilter{Vis: vis, Completed: &open, DueIn: &today})
	if err != nil {
		return fmt.Errorf("dashboard due-today tasks: %w", err)
	}

	d.TotalTasks = total
	d.CompletedTasks = completed
	d.OverdueTasks = overdue
	d.DueTodayTasks = dueToday
	d.TaskCompletionRate = SafeRate(float64(completed), float64(total))
	return nil
}

func (e *Engine) activityStats(ctx context.Context, vis Visibility, today, last7 Window, d *Dashboard) error {
	total, err := e.src.CountActivities(ctx, ActivityFilter{Vis: vis})
	if err != nil {
		return fmt.Errorf("dashboard activities: %w", err)
	}
	todayCount, err := e.src.CountActivities(ctx, ActivityFilter{Vis: vis, CreatedIn: &today})
	if err != nil {
		return fmt.Errorf("dashboard activities today: %w", err)
	}
	weekCount, err := e.src.CountActivities(ctx, ActivityFilter{Vis: vis, CreatedIn: &last7})
	if err != nil {
		return fmt.Errorf("dashboard activities last 7: %w", err)
	}
	groups, err := e.src.GroupActivitiesByType(ctx, ActivityFilter{Vis: vis})
	if err != nil {
		return fmt.Errorf("dashboard activities by type: %w", err)
	}

	byType := make(map[models.ActivityType]int, len(groups))
	for _, tc := range groups {
		byType[tc.Type] = tc.Count
	}
	types := make([]TypeBreakdown, 0, len(models.ActivityTypes()))
	for _, at := range models.ActivityTypes() {
		types = append(types, TypeBreakdown{Type: at, Count: byType[at]})
	}

	d.TotalActivities = total
	d.ActivitiesToday = todayCount
	d.ActivitiesLast7Days = weekCount
	d.ActivitiesByType = types
	return nil
}
