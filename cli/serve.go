// ABOUTME: API server subcommand
// ABOUTME: Starts the JSON analytics API on a configurable port
package cli

import (
	"database/sql"
	"flag"
	"os"
	"strconv"

	"github.com/harperreed/crmpulse/web"
)

const defaultPort = 8080

// ServeCommand starts the analytics API server.
func ServeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", envPort(), "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := web.NewServer(NewEngine(database))
	return server.Start(*port)
}

func envPort() int {
	if raw := os.Getenv("CRM_PORT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultPort
}
