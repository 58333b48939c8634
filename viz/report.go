// ABOUTME: Terminal report and dashboard rendering
// ABOUTME: Styled summary views for the report and dashboard CLI commands
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmpulse/analytics"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// RenderReport renders a report for the terminal.
func RenderReport(r *analytics.Report) string {
	var out strings.Builder

	out.WriteString(headerStyle.Render("SALES REPORT") + "\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("%s to %s, by %s", r.StartDate, r.EndDate, r.GroupBy)) + "\n\n")

	out.WriteString(sectionStyle.Render("RESULTS") + "\n")
	out.WriteString(fmt.Sprintf("  Revenue: %s   Win rate: %.1f%%   Avg deal: %s   Velocity: %.1f days\n",
		money(r.TotalRevenue), r.WinRate, money(int64(r.AverageDealSize)), r.PipelineVelocityDays))
	if len(r.DealsWonLost) == 2 {
		out.WriteString(fmt.Sprintf("  Won: %d (%s)   Lost: %d (%s)   Open pipeline: %s\n",
			r.DealsWonLost[0].Count, money(r.DealsWonLost[0].Value),
			r.DealsWonLost[1].Count, money(r.DealsWonLost[1].Value),
			money(r.OpenPipelineValue)))
	}
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("PIPELINE") + "\n")
	renderStageBars(&out, r.DealsByStage)
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("FUNNEL") + "\n")
	for _, stage := range r.ConversionFunnel {
		out.WriteString(fmt.Sprintf("  %-10s %6d  %5.1f%% conv  %5.1f%% drop\n",
			stage.Stage, stage.Count, stage.ConversionRate, stage.DropOffRate))
	}
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("ACTIVITY") + "\n")
	for _, t := range r.ActivitiesByType {
		out.WriteString(fmt.Sprintf("  %-8s %d\n", t.Type, t.Count))
	}
	out.WriteString(fmt.Sprintf("  Tasks completed: %.1f%%  (avg %.1f days to complete)\n\n",
		r.TaskCompletionRate, r.AverageTimeToCompleteDays))

	if len(r.TopCompaniesByDealValue) > 0 {
		out.WriteString(sectionStyle.Render("TOP COMPANIES BY DEAL VALUE") + "\n")
		for i, e := range r.TopCompaniesByDealValue {
			out.WriteString(fmt.Sprintf("  %2d. %-24s %s (%d deals)\n", i+1, e.Name, money(e.Value), e.Count))
		}
		out.WriteString("\n")
	}
	if len(r.TopContactsByActivity) > 0 {
		out.WriteString(sectionStyle.Render("TOP CONTACTS BY ACTIVITY") + "\n")
		for i, e := range r.TopContactsByActivity {
			out.WriteString(fmt.Sprintf("  %2d. %-24s %d activities\n", i+1, e.Name, e.Count))
		}
	}

	return out.String()
}

// RenderDashboard renders the dashboard snapshot for the terminal.
func RenderDashboard(d *analytics.Dashboard) string {
	var out strings.Builder

	out.WriteString(headerStyle.Render("CRM DASHBOARD") + "\n\n")

	out.WriteString(sectionStyle.Render("CONTACTS") + "\n")
	out.WriteString(fmt.Sprintf("  %d total  (%d leads, %d customers)  %d new in 30 days  %.1f%% converted\n\n",
		d.TotalContacts, d.TotalLeads, d.TotalCustomers, d.NewContactsLast30Days, d.LeadConversionRate))

	out.WriteString(sectionStyle.Render("DEALS") + "\n")
	out.WriteString(fmt.Sprintf("  %d total  %d open (%s)  %d won (%s)  %d lost  %.1f%% win rate\n",
		d.TotalDeals, d.OpenDeals, money(d.OpenPipelineValue),
		d.WonDeals, money(d.WonDealsValue), d.LostDeals, d.WinRate))
	renderStageBars(&out, d.PipelineByStage)
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("TASKS") + "\n")
	out.WriteString(fmt.Sprintf("  %d total  %d completed (%.1f%%)  %d overdue  %d due today\n\n",
		d.TotalTasks, d.CompletedTasks, d.TaskCompletionRate, d.OverdueTasks, d.DueTodayTasks))

	out.WriteString(sectionStyle.Render("ACTIVITY") + "\n")
	out.WriteString(fmt.Sprintf("  %d total  %d today  %d this week\n", d.TotalActivities, d.ActivitiesToday, d.ActivitiesLast7Days))
	for _, t := range d.ActivitiesByType {
		out.WriteString(fmt.Sprintf("  %-8s %d\n", t.Type, t.Count))
	}

	if len(d.UpcomingTasks) > 0 {
		out.WriteString("\n" + sectionStyle.Render("UPCOMING TASKS") + "\n")
		for _, t := range d.UpcomingTasks {
			due := "no due date"
			if t.DueDate != nil {
				due = t.DueDate.Format("Jan 2")
			}
			out.WriteString(fmt.Sprintf("  [%s] %-32s %s\n", t.Priority, t.Title, dimStyle.Render(due)))
		}
	}

	return out.String()
}

func renderStageBars(out *strings.Builder, stages []analytics.StageBreakdown) {
	maxCount := 0
	for _, s := range stages {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range stages {
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-13s %s  %3d (%s)\n", s.Stage, bar, s.Count, money(s.Value)))
	}
}

// money formats cents as whole dollars with a K suffix past $10k.
func money(cents int64) string {
	dollars := cents / 100
	if dollars >= 10000 || dollars <= -10000 {
		return fmt.Sprintf("$%dK", dollars/1000)
	}
	return fmt.Sprintf("$%d", dollars)
}
