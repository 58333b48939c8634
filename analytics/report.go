// ABOUTME: Report aggregation functions and the report composer
// ABOUTME: Twenty named metrics fanned out concurrently over one shared window
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/crmpulse/models"
)

// TimeBucketMetric is one point of a time series. Series are sparse:
// buckets with no records are not synthesized.
type TimeBucketMetric struct {
	Bucket string `json:"bucket"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Value  int64  `json:"value"`
}

// StatusBreakdown is one row of the fixed-shape won/lost breakdown.
type StatusBreakdown struct {
	Status models.DealStatus `json:"status"`
	Count  int               `json:"count"`
	Value  int64             `json:"value"`
}

// StageBreakdown is one pipeline-stage row, zero-filled for stages with
// no deals so consumers can index by position.
type StageBreakdown struct {
	Stage models.DealStage `json:"stage"`
	Count int              `json:"count"`
	Value int64            `json:"value"`
}

// TypeBreakdown is one activity-type row.
type TypeBreakdown struct {
	Type  models.ActivityType `json:"type"`
	Count int                 `json:"count"`
}

// PriorityBreakdown is one task-priority row.
type PriorityBreakdown struct {
	Priority  models.TaskPriority `json:"priority"`
	Count     int                 `json:"count"`
	Completed int                 `json:"completed"`
}

// StageDuration is the mean observed dwell time for one stage.
type StageDuration struct {
	Stage       models.DealStage `json:"stage"`
	AvgDays     float64          `json:"avg_days"`
	Transitions int              `json:"transitions"`
}

// HeatmapActivity is one denormalized activity carried inside a heatmap
// bucket so the caller can render without a second query.
type HeatmapActivity struct {
	ID          string              `json:"id"`
	Type        models.ActivityType `json:"type"`
	Subject     string              `json:"subject"`
	ContactName string              `json:"contact_name"`
	CreatedAt   time.Time           `json:"created_at"`
}

// HeatmapDay is one weekday bucket of the activity heatmap.
type HeatmapDay struct {
	Weekday    int               `json:"weekday"` // 0=Sunday .. 6=Saturday
	Label      string            `json:"label"`
	Count      int               `json:"count"`
	Activities []HeatmapActivity `json:"activities"`
}

// Report is the full report response, one field per metric.
type Report struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	GroupBy   Granularity `json:"group_by"`

	RevenueOverTime     []TimeBucketMetric `json:"revenue_over_time"`
	NewDealsOverTime    []TimeBucketMetric `json:"new_deals_over_time"`
	NewContactsOverTime []TimeBucketMetric `json:"new_contacts_over_time"`
	ActivitiesOverTime  []TimeBucketMetric `json:"activities_over_time"`

	DealsWonLost         []StatusBreakdown `json:"deals_won_lost"`
	TotalRevenue         int64             `json:"total_revenue"`
	AverageDealSize      float64           `json:"average_deal_size"`
	WinRate              float64           `json:"win_rate"`
	PipelineVelocityDays float64           `json:"pipeline_velocity_days"`
	OpenPipelineValue    int64             `json:"open_pipeline_value"`

	DealsByStage       []StageBreakdown `json:"deals_by_stage"`
	AverageTimeInStage []StageDuration  `json:"average_time_in_stage"`

	ActivitiesByType []TypeBreakdown `json:"activities_by_type"`

	TasksByPriority           []PriorityBreakdown `json:"tasks_by_priority"`
	TaskCompletionRate        float64             `json:"task_completion_rate"`
	AverageTimeToCompleteDays float64             `json:"average_time_to_complete_days"`

	ConversionFunnel []FunnelStage `json:"conversion_funnel"`

	TopCompaniesByDealValue []RankEntry `json:"top_companies_by_deal_value"`
	TopContactsByActivity   []RankEntry `json:"top_contacts_by_activity"`

	ActivityHeatmap []HeatmapDay `json:"activity_heatmap"`
}

// ReportParams scope one report request.
type ReportParams struct {
	Window  Window
	GroupBy Granularity
	Vis     Visibility
}

// BuildReport fans out every report aggregation concurrently against
// the shared window and visibility filter, then fans the results into
// one Report. Composition is all-or-nothing: any sub-aggregation error
// fails the whole request. Sub-aggregations carry no cross-metric
// snapshot isolation — each observes the store at its own read time, so
// two metrics in one response may reflect writes microseconds apart.
func (e *Engine) BuildReport(ctx context.Context, p ReportParams) (*Report, error) {
	w := p.Window
	vis := p.Vis
	groupBy := p.GroupBy
	if groupBy == "" {
		groupBy = GranularityDay
	}

	r := &Report{
		StartDate: localDay(w.Start, e.loc),
		EndDate:   localDay(w.End.Add(-time.Nanosecond), e.loc),
		GroupBy:   groupBy,
	}

	g, ctx := errgroup.WithContext(ctx)

	e.spawn(ctx, g, func() error {
		series, err := e.revenueOverTime(ctx, w, groupBy, vis)
		r.RevenueOverTime = series
		return err
	})
	e.spawn(ctx, g, func() error {
		series, err := e.newDealsOverTime(ctx, w, groupBy, vis)
		r.NewDealsOverTime = series
		return err
	})
	e.spawn(ctx, g, func() error {
		series, err := e.newContactsOverTime(ctx, w, groupBy, vis)
		r.NewContactsOverTime = series
		return err
	})
	e.spawn(ctx, g, func() error {
		series, err := e.activitiesOverTime(ctx, w, groupBy, vis)
		r.ActivitiesOverTime = series
		return err
	})
	e.spawn(ctx, g, func() error {
		return e.closedDealStats(ctx, w, vis, r)
	})
	e.spawn(ctx, g, func() error {
		value, err := e.openPipelineValue(ctx, w, vis)
		r.OpenPipelineValue = value
		return err
	})
	e.spawn(ctx, g, func() error {
		stages, err := e.dealsByStage(ctx, w, vis)
		r.DealsByStage = stages
		return err
	})
	e.spawn(ctx, g, func() error {
		durations, err := e.averageTimeInStage(ctx, w, vis)
		r.AverageTimeInStage = durations
		return err
	})
	e.spawn(ctx, g, func() error {
		types, err := e.activitiesByType(ctx, w, vis)
		r.ActivitiesByType = types
		return err
	})
	e.spawn(ctx, g, func() error {
		return e.taskStats(ctx, w, vis, r)
	})
	e.spawn(ctx, g, func() error {
		funnel, err := e.conversionFunnel(ctx, w, vis)
		r.ConversionFunnel = funnel
		return err
	})
	e.spawn(ctx, g, func() error {
		top, err := e.topCompaniesByDealValue(ctx, w, vis)
		r.TopCompaniesByDealValue = top
		return err
	})
	e.spawn(ctx, g, func() error {
		top, err := e.topContactsByActivity(ctx, w, vis)
		r.TopContactsByActivity = top
		return err
	})
	e.spawn(ctx, g, func() error {
		heatmap, err := e.activityHeatmap(ctx, w, vis)
		r.ActivityHeatmap = heatmap
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// bucketSeries buckets records by timestamp and returns the series
// sorted ascending by bucket key. A nil val produces count-only points.
func bucketSeries[T any](records []T, at func(T) time.Time, val func(T) int64, g Granularity, loc *time.Location) []TimeBucketMetric {
	groups, order := GroupedAggregate(records, func(r T) Bucket {
		return BucketFor(at(r), g, loc)
	}, val)

	series := make([]TimeBucketMetric, 0, len(order))
	for _, b := range order {
		agg := groups[b]
		series = append(series, TimeBucketMetric{
			Bucket: b.Key,
			Label:  b.Label,
			Count:  agg.Count,
			Value:  agg.Sum,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Bucket < series[j].Bucket
	})
	return series
}

func (e *Engine) revenueOverTime(ctx context.Context, w Window, g Granularity, vis Visibility) ([]TimeBucketMetric, error) {
	deals, err := e.src.FindDeals(ctx, DealFilter{
		Vis:      vis,
		Statuses: []models.DealStatus{models.DealWon},
		ClosedIn: &w,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("revenue over time: %w", err)
	}
	series := bucketSeries(deals, func(d models.Deal) time.Time {
		if d.ActualCloseDate != nil {
			return *d.ActualCloseDate
		}
		return d.CreatedAt
	}, func(d models.Deal) int64 { return d.Value }, g, e.loc)
	return series, nil
}

func (e *Engine) newDealsOverTime(ctx context.Context, w Window, g Granularity, vis Visibility) ([]TimeBucketMetric, error) {
	deals, err := e.src.FindDeals(ctx, DealFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("new deals over time: %w", err)
	}
	series := bucketSeries(deals, func(d models.Deal) time.Time { return d.CreatedAt },
		func(d models.Deal) int64 { return d.Value }, g, e.loc)
	return series, nil
}

func (e *Engine) newContactsOverTime(ctx context.Context, w Window, g Granularity, vis Visibility) ([]TimeBucketMetric, error) {
	contacts, err := e.src.FindContacts(ctx, ContactFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("new contacts over time: %w", err)
	}
	series := bucketSeries(contacts, func(c models.Contact) time.Time { return c.CreatedAt },
		nil, g, e.loc)
	return series, nil
}

func (e *Engine) activitiesOverTime(ctx context.Context, w Window, g Granularity, vis Visibility) ([]TimeBucketMetric, error) {
	activities, err := e.src.FindActivities(ctx, ActivityFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("activities over time: %w", err)
	}
	series := bucketSeries(activities, func(a models.Activity) time.Time { return a.CreatedAt },
		nil, g, e.loc)
	return series, nil
}

// closedDealStats computes every metric derived from deals closed in
// the window: the fixed-shape won/lost breakdown, total revenue,
// average deal size, win rate, and pipeline velocity. One fetch feeds
// all five fields.
func (e *Engine) closedDealStats(ctx context.Context, w Window, vis Visibility, r *Report) error {
	deals, err := e.src.FindDeals(ctx, DealFilter{
		Vis:      vis,
		Statuses: []models.DealStatus{models.DealWon, models.DealLost},
		ClosedIn: &w,
	}, 0)
	if err != nil {
		return fmt.Errorf("closed deal stats: %w", err)
	}

	won := StatusBreakdown{Status: models.DealWon}
	lost := StatusBreakdown{Status: models.DealLost}
	var cycleDays float64
	for _, d := range deals {
		switch d.Status {
		case models.DealWon:
			won.Count++
			won.Value += d.Value
			if d.ActualCloseDate != nil {
				cycleDays += d.ActualCloseDate.Sub(d.CreatedAt).Hours() / 24
			}
		case models.DealLost:
			lost.Count++
			lost.Value += d.Value
		}
	}

	// Always two rows, won then lost, even with no data: consumers
	// index this by status position.
	r.DealsWonLost = []StatusBreakdown{won, lost}
	r.TotalRevenue = won.Value
	r.AverageDealSize = 0
	if won.Count > 0 {
		r.AverageDealSize = float64(won.Value) / float64(won.Count)
	}
	r.WinRate = SafeRate(float64(won.Count), float64(won.Count+lost.Count))
	r.PipelineVelocityDays = meanDays(cycleDays, won.Count)
	return nil
}

func (e *Engine) openPipelineValue(ctx context.Context, w Window, vis Visibility) (int64, error) {
	agg, err := e.src.AggregateDeals(ctx, DealFilter{
		Vis:       vis,
		Statuses:  []models.DealStatus{models.DealOpen},
		CreatedIn: &w,
	})
	if err != nil {
		return 0, fmt.Errorf("open pipeline value: %w", err)
	}
	return agg.Value, nil
}

// dealsByStage returns one row per pipeline stage in pipeline order,
// zero-filled. Stages are a closed enum, so the output is exhaustive.
func (e *Engine) dealsByStage(ctx context.Context, w Window, vis Visibility) ([]StageBreakdown, error) {
	groups, err := e.src.GroupDealsByStage(ctx, DealFilter{Vis: vis, CreatedIn: &w})
	if err != nil {
		return nil, fmt.Errorf("deals by stage: %w", err)
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

// averageTimeInStage reports the mean elapsed days deals spent in each
// stage, over transitions inside the window. A transition's dwell time
// runs to the deal's next transition, or to the window end for the last
// observed one. Negative dwell from clock skew passes through; the
// engine does not sanitize business data.
func (e *Engine) averageTimeInStage(ctx context.Context, w Window, vis Visibility) ([]StageDuration, error) {
	history, err := e.src.FindStageHistory(ctx, StageHistoryFilter{Vis: vis, ChangedIn: &w})
	if err != nil {
		return nil, fmt.Errorf("average time in stage: %w", err)
	}

	sort.Slice(history, func(i, j int) bool {
		if history[i].DealID != history[j].DealID {
			return history[i].DealID.String() < history[j].DealID.String()
		}
		return history[i].ChangedAt.Before(history[j].ChangedAt)
	})

	type acc struct {
		days  float64
		count int
	}
	dwell := make(map[models.DealStage]*acc)
	for i, h := range history {
		horizon := w.End
		if i+1 < len(history) && history[i+1].DealID == h.DealID {
			horizon = history[i+1].ChangedAt
		}
		a := dwell[h.ToStage]
		if a == nil {
			a = &acc{}
			dwell[h.ToStage] = a
		}
		a.days += horizon.Sub(h.ChangedAt).Hours() / 24
		a.count++
	}

	out := make([]StageDuration, 0, len(dwell))
	for _, stage := range models.DealStages() {
		a := dwell[stage]
		if a == nil {
			continue
		}
		out = append(out, StageDuration{
			Stage:       stage,
			AvgDays:     meanDays(a.days, a.count),
			Transitions: a.count,
		})
	}
	return out, nil
}

// activitiesByType is exhaustive over the closed activity-type enum.
func (e *Engine) activitiesByType(ctx context.Context, w Window, vis Visibility) ([]TypeBreakdown, error) {
	groups, err := e.src.GroupActivitiesByType(ctx, ActivityFilter{Vis: vis, CreatedIn: &w})
	if err != nil {
		return nil, fmt.Errorf("activities by type: %w", err)
	}

	byType := make(map[models.ActivityType]int, len(groups))
	for _, tc := range groups {
		byType[tc.Type] = tc.Count
	}
	out := make([]TypeBreakdown, 0, len(models.ActivityTypes()))
	for _, at := range models.ActivityTypes() {
		out = append(out, TypeBreakdown{Type: at, Count: byType[at]})
	}
	return out, nil
}

// taskStats computes the by-priority breakdown, completion rate, and
// mean time-to-complete from one fetch of the window's tasks.
func (e *Engine) taskStats(ctx context.Context, w Window, vis Visibility, r *Report) error {
	tasks, err := e.src.FindTasks(ctx, TaskFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return fmt.Errorf("task stats: %w", err)
	}

	byPriority := make(map[models.TaskPriority]*PriorityBreakdown)
	for _, p := range models.TaskPriorities() {
		byPriority[p] = &PriorityBreakdown{Priority: p}
	}
	completed := 0
	var completionDays float64
	for _, t := range tasks {
		if pb := byPriority[t.Priority]; pb != nil {
			pb.Count++
			if t.Completed {
				pb.Completed++
			}
		}
		if t.Completed {
			completed++
			if t.CompletedAt != nil {
				completionDays += t.CompletedAt.Sub(t.CreatedAt).Hours() / 24
			}
		}
	}

	out := make([]PriorityBreakdown, 0, len(models.TaskPriorities()))
	for _, p := range models.TaskPriorities() {
		out = append(out, *byPriority[p])
	}
	r.TasksByPriority = out
	r.TaskCompletionRate = SafeRate(float64(completed), float64(len(tasks)))
	r.AverageTimeToCompleteDays = meanDays(completionDays, completed)
	return nil
}

// conversionFunnel runs the fixed Leads → Customers → Deals → Won
// funnel over the window.
func (e *Engine) conversionFunnel(ctx context.Context, w Window, vis Visibility) ([]FunnelStage, error) {
	leads, err := e.src.CountContacts(ctx, ContactFilter{Vis: vis, CreatedIn: &w})
	if err != nil {
		return nil, fmt.Errorf("funnel leads: %w", err)
	}
	customers, err := e.src.CountContacts(ctx, ContactFilter{
		Vis: vis, Status: models.ContactCustomer, CreatedIn: &w,
	})
	if err != nil {
		return nil, fmt.Errorf("funnel customers: %w", err)
	}
	deals, err := e.src.CountDeals(ctx, DealFilter{Vis: vis, CreatedIn: &w})
	if err != nil {
		return nil, fmt.Errorf("funnel deals: %w", err)
	}
	won, err := e.src.CountDeals(ctx, DealFilter{
		Vis:       vis,
		Statuses:  []models.DealStatus{models.DealWon},
		CreatedIn: &w,
	})
	if err != nil {
		return nil, fmt.Errorf("funnel won: %w", err)
	}

	return BuildFunnel([]FunnelInput{
		{Name: "Leads", Count: leads},
		{Name: "Customers", Count: customers},
		{Name: "Deals", Count: deals},
		{Name: "Won", Count: won},
	}), nil
}

func (e *Engine) topCompaniesByDealValue(ctx context.Context, w Window, vis Visibility) ([]RankEntry, error) {
	deals, err := e.src.FindDeals(ctx, DealFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(deals))
	for _, d := range deals {
		if d.CompanyID != nil {
			ids = append(ids, *d.CompanyID)
		}
	}
	names, err := e.src.CompanyNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}

	top := Rank(deals, func(d models.Deal) (string, string, bool) {
		if d.CompanyID == nil {
			return "", "", false
		}
		name, ok := names[*d.CompanyID]
		if !ok {
			// company row missing: skip, don't fail
			return "", "", false
		}
		return d.CompanyID.String(), name, true
	}, func(d models.Deal) int64 { return d.Value }, defaultRankSize)
	return top, nil
}

func (e *Engine) topContactsByActivity(ctx context.Context, w Window, vis Visibility) ([]RankEntry, error) {
	activities, err := e.src.FindActivities(ctx, ActivityFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("top contacts: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ContactID)
	}
	names, err := e.src.ContactNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("top contacts: %w", err)
	}

	top := Rank(activities, func(a models.Activity) (string, string, bool) {
		name, ok := names[a.ContactID]
		if !ok {
			return "", "", false
		}
		return a.ContactID.String(), name, true
	}, func(models.Activity) int64 { return 1 }, defaultRankSize)
	return top, nil
}

// activityHeatmap buckets the window's activities by weekday of their
// creation in the reference timezone. Always exactly seven buckets,
// Sunday first, each carrying its denormalized activity list.
func (e *Engine) activityHeatmap(ctx context.Context, w Window, vis Visibility) ([]HeatmapDay, error) {
	activities, err := e.src.FindActivities(ctx, ActivityFilter{Vis: vis, CreatedIn: &w}, 0)
	if err != nil {
		return nil, fmt.Errorf("activity heatmap: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ContactID)
	}
	names, err := e.src.ContactNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("activity heatmap: %w", err)
	}

	days := make([]HeatmapDay, 7)
	for i := range days {
		days[i] = HeatmapDay{
			Weekday:    i,
			Label:      time.Weekday(i).String(),
			Activities: []HeatmapActivity{},
		}
	}
	for _, a := range activities {
		dow := int(a.CreatedAt.In(e.loc).Weekday())
		days[dow].Count++
		days[dow].Activities = append(days[dow].Activities, HeatmapActivity{
			ID:          a.ID.String(),
			Type:        a.Type,
			Subject:     a.Subject,
			ContactName: names[a.ContactID],
			CreatedAt:   a.CreatedAt,
		})
	}
	return days, nil
}
