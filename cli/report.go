// ABOUTME: Report subcommand
// ABOUTME: Generates a report for a date range and prints it styled or as JSON
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/auth"
	"github.com/harperreed/crmpulse/viz"
)

// ReportCommand generates and prints a report.
func ReportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	startStr := fs.String("start", "", "Start date (YYYY-MM-DD, default 30 days ago)")
	endStr := fs.String("end", "", "End date inclusive (YYYY-MM-DD, default today)")
	groupBy := fs.String("group-by", "day", "Granularity: day, week, month, quarter")
	asJSON := fs.Bool("json", false, "Print raw JSON instead of the styled view")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine := NewEngine(database)
	loc := engine.Location()

	w := analytics.LastNDays(time.Now(), 30, loc)
	if t, err := time.ParseInLocation("2006-01-02", *startStr, loc); err == nil {
		w.Start = t
	}
	if t, err := time.ParseInLocation("2006-01-02", *endStr, loc); err == nil {
		w.End = t.AddDate(0, 0, 1)
	}
	if !w.Start.Before(w.End) {
		return fmt.Errorf("start date %s is not before end date %s", *startStr, *endStr)
	}

	report, err := engine.BuildReport(context.Background(), analytics.ReportParams{
		Window:  w,
		GroupBy: analytics.ParseGranularity(*groupBy),
		Vis:     auth.VisibilityFor(mcpUser(), auth.ActionViewReports),
	})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Print(viz.RenderReport(report))
	return nil
}
