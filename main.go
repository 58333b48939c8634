// ABOUTME: Entry point for the CRM analytics server and CLI
// ABOUTME: Routes to the API server, MCP server, or report commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/crmpulse/cli"
	"github.com/harperreed/crmpulse/db"
)

const version = "0.1.0"

func main() {
	// Optional .env for CRM_TIMEZONE, CRM_PORT, CRM_MAX_CONCURRENCY
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/crmpulse/crm.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("crmpulse version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	database, err := db.OpenDatabase(getDatabasePath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Println("Database initialized successfully")
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		if err := cli.ServeCommand(database, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "report":
		if err := cli.ReportCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "dashboard":
		if err := cli.DashboardCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "seed":
		if err := cli.SeedCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "crmpulse", "crm.db")
}

func printUsage() {
	fmt.Printf(`crmpulse v%s - CRM analytics and reporting engine

USAGE:
  crmpulse [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/crmpulse/crm.db)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the JSON analytics API
    --port <n>             Port to listen on (default: 8080, or CRM_PORT)

  mcp                    Start MCP server (for assistant integration)

  report                 Generate a sales report
    --start <date>         Start date YYYY-MM-DD (default: 30 days ago)
    --end <date>           End date YYYY-MM-DD, inclusive (default: today)
    --group-by <g>         day, week, month, or quarter (default: day)
    --json                 Print raw JSON

  dashboard              Print the live dashboard snapshot
    --json                 Print raw JSON

  seed                   Populate the database with demo data
    --contacts <n>         Number of contacts to generate (default: 60)

ENVIRONMENT (also read from .env):
  CRM_TIMEZONE           Reference timezone for bucketing (default: America/Chicago)
  CRM_PORT               API port for serve
  CRM_MAX_CONCURRENCY    Concurrent store reads per request (default: 8)
  CRM_USER_ID            Acting user for CLI and MCP sessions
  CRM_USER_ROLE          admin, manager, or rep (default: admin when unset)

EXAMPLES:
  # Seed demo data, then look at the dashboard
  crmpulse seed
  crmpulse dashboard

  # Monthly revenue report for Q1
  crmpulse report --start 2026-01-01 --end 2026-03-31 --group-by month

  # Start the API
  crmpulse serve --port 8080

`, version)
}
