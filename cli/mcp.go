// ABOUTME: MCP server subcommand
// ABOUTME: Starts the analytics MCP server for assistant integration
package cli

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/crmpulse/auth"
	"github.com/harperreed/crmpulse/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(database *sql.DB) error {
	log.Println("Starting CRM analytics MCP server...")

	engine := NewEngine(database)
	analyticsHandlers := handlers.NewAnalyticsHandlers(engine, mcpUser())

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmpulse",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_report",
		Description: "Generate a sales analytics report over a date range: revenue and deal trends, win rate, pipeline, funnel, task and activity metrics, and leaderboards",
	}, analyticsHandlers.GetReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get the live CRM dashboard: totals, pipeline by stage, task and activity counts, and recent records",
	}, analyticsHandlers.GetDashboard)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}

// mcpUser derives the acting user from the environment. Stdio MCP is a
// local session; no identity configured means a full-visibility admin.
func mcpUser() auth.User {
	id := os.Getenv("CRM_USER_ID")
	role := auth.Role(os.Getenv("CRM_USER_ROLE"))
	if id == "" && role == "" {
		return auth.User{Role: auth.RoleAdmin}
	}
	if role != auth.RoleAdmin && role != auth.RoleManager {
		role = auth.RoleRep
	}
	return auth.User{ID: id, Role: role}
}
