// ABOUTME: Seed subcommand
// ABOUTME: Populates the database with deterministic demo data
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/crmpulse/db"
)

// SeedCommand fills the database with demo data.
func SeedCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	contacts := fs.Int("contacts", 60, "Number of contacts to generate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store := db.NewStore(database)
	if err := store.Seed(context.Background(), time.Now(), *contacts); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeded %d contacts with companies, deals, activities, and tasks", *contacts)
	return nil
}
