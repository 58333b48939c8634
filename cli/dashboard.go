// ABOUTME: Dashboard subcommand
// ABOUTME: Prints the live dashboard snapshot styled or as JSON
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/auth"
	"github.com/harperreed/crmpulse/viz"
)

// DashboardCommand generates and prints the dashboard.
func DashboardCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print raw JSON instead of the styled view")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine := NewEngine(database)
	dashboard, err := engine.BuildDashboard(context.Background(), analytics.DashboardParams{
		Vis: auth.VisibilityFor(mcpUser(), auth.ActionViewDashboard),
	})
	if err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard)
	}
	fmt.Print(viz.RenderDashboard(dashboard))
	return nil
}
