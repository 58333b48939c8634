// ABOUTME: MCP tool handlers for reports and dashboards
// ABOUTME: Exposes the analytics engine to assistants over MCP
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/auth"
)

const defaultReportDays = 30

type AnalyticsHandlers struct {
	engine *analytics.Engine
	user   auth.User
}

func NewAnalyticsHandlers(engine *analytics.Engine, user auth.User) *AnalyticsHandlers {
	return &AnalyticsHandlers{engine: engine, user: user}
}

type GetReportInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Report start date (YYYY-MM-DD, default 30 days ago)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Report end date inclusive (YYYY-MM-DD, default today)"`
	GroupBy   string `json:"group_by,omitempty" jsonschema:"Time series granularity: day, week, month, or quarter (default day)"`
}

func (h *AnalyticsHandlers) GetReport(ctx context.Context, req *mcp.CallToolRequest, input GetReportInput) (*mcp.CallToolResult, *analytics.Report, error) {
	loc := h.engine.Location()
	w := analytics.LastNDays(time.Now(), defaultReportDays, loc)
	if t, err := time.ParseInLocation("2006-01-02", input.StartDate, loc); err == nil {
		w.Start = t
	}
	if t, err := time.ParseInLocation("2006-01-02", input.EndDate, loc); err == nil {
		w.End = t.AddDate(0, 0, 1)
	}
	if !w.Start.Before(w.End) {
		w = analytics.LastNDays(time.Now(), defaultReportDays, loc)
	}

	report, err := h.engine.BuildReport(ctx, analytics.ReportParams{
		Window:  w,
		GroupBy: analytics.ParseGranularity(input.GroupBy),
		Vis:     auth.VisibilityFor(h.user, auth.ActionViewReports),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return &mcp.CallToolResult{}, report, nil
}

type GetDashboardInput struct{}

func (h *AnalyticsHandlers) GetDashboard(ctx context.Context, req *mcp.CallToolRequest, input GetDashboardInput) (*mcp.CallToolResult, *analytics.Dashboard, error) {
	dashboard, err := h.engine.BuildDashboard(ctx, analytics.DashboardParams{
		Vis: auth.VisibilityFor(h.user, auth.ActionViewDashboard),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate dashboard: %w", err)
	}
	return &mcp.CallToolResult{}, dashboard, nil
}
