// ABOUTME: Tests for terminal rendering
// ABOUTME: Covers section presence, bar scaling, and money formatting
package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/models"
)

func TestRenderReportSections(t *testing.T) {
	r := &analytics.Report{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		GroupBy:   analytics.GranularityDay,
		DealsWonLost: []analytics.StatusBreakdown{
			{Status: models.DealWon, Count: 3, Value: 6000000},
			{Status: models.DealLost, Count: 1, Value: 500000},
		},
		TotalRevenue: 6000000,
		WinRate:      75,
		ConversionFunnel: []analytics.FunnelStage{
			{Stage: "Leads", Count: 100, ConversionRate: 100},
			{Stage: "Won", Count: 4, ConversionRate: 4, DropOffRate: 96},
		},
		DealsByStage: []analytics.StageBreakdown{
			{Stage: models.StageLead, Count: 4, Value: 100000},
			{Stage: models.StageProposal, Count: 2, Value: 50000},
		},
		TopCompaniesByDealValue: []analytics.RankEntry{
			{ID: "c1", Name: "Acme", Value: 2500000, Count: 2},
		},
	}

	out := RenderReport(r)
	assert.Contains(t, out, "SALES REPORT")
	assert.Contains(t, out, "2024-03-01 to 2024-03-31")
	assert.Contains(t, out, "Win rate: 75.0%")
	assert.Contains(t, out, "FUNNEL")
	assert.Contains(t, out, "Acme")
	// fullest stage gets a full bar
	assert.Contains(t, out, "██████████")
}

func TestRenderDashboardSections(t *testing.T) {
	d := &analytics.Dashboard{
		TotalContacts:  10,
		TotalLeads:     6,
		TotalCustomers: 4,
		TotalDeals:     5,
		UpcomingTasks: []models.Task{
			{Title: "Call Acme", Priority: models.PriorityHigh},
		},
	}

	out := RenderDashboard(d)
	assert.Contains(t, out, "CRM DASHBOARD")
	assert.Contains(t, out, "10 total  (6 leads, 4 customers)")
	assert.Contains(t, out, "UPCOMING TASKS")
	assert.Contains(t, out, "Call Acme")
	assert.Contains(t, out, "no due date")
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "$50", money(5000))
	assert.Equal(t, "$9999", money(999900))
	assert.Equal(t, "$25K", money(2500000))
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "$-12K", money(-1200000))
}
