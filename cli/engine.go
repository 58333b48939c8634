// ABOUTME: Shared engine construction for CLI commands
// ABOUTME: Builds the analytics engine from the database and environment
package cli

import (
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/harperreed/crmpulse/analytics"
	"github.com/harperreed/crmpulse/db"
)

// NewEngine builds the analytics engine over the given database,
// honoring CRM_TIMEZONE and CRM_MAX_CONCURRENCY from the environment.
func NewEngine(database *sql.DB) *analytics.Engine {
	var opts []analytics.Option

	if tz := os.Getenv("CRM_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("Invalid CRM_TIMEZONE %q, using default: %v", tz, err)
		} else {
			opts = append(opts, analytics.WithLocation(loc))
		}
	}
	if raw := os.Getenv("CRM_MAX_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Printf("Invalid CRM_MAX_CONCURRENCY %q, using default", raw)
		} else {
			opts = append(opts, analytics.WithMaxConcurrency(n))
		}
	}

	return analytics.NewEngine(db.NewStore(database), opts...)
}
