// ABOUTME: Demo data seeding
// ABOUTME: Generates a deterministic CRM dataset over the trailing 90 days
package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/crmpulse/models"
)

var seedCompanies = []struct{ name, industry string }{
	{"Acme Corp", "Manufacturing"},
	{"Globex", "Technology"},
	{"Initech", "Software"},
	{"Umbrella Health", "Healthcare"},
	{"Stark Industries", "Defense"},
	{"Wayne Enterprises", "Conglomerate"},
	{"Hooli", "Technology"},
	{"Pied Piper", "Software"},
}

var seedFirstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret", "Dennis", "Ken", "Radia", "Lynn", "Vint"}
var seedLastNames = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Ritchie", "Thompson", "Perlman", "Conway", "Cerf"}
var seedOwners = []string{"alice", "bob", "carol"}

// Seed populates the database with a deterministic demo dataset spread
// over the 90 days before now. Closed deals get a close date and a full
// stage-history trail; completed tasks get a completion time.
func (s *Store) Seed(ctx context.Context, now time.Time, contacts int) error {
	if contacts <= 0 {
		contacts = 60
	}
	rng := rand.New(rand.NewSource(42))
	start := now.AddDate(0, 0, -90)

	companyIDs := make([]uuid.UUID, 0, len(seedCompanies))
	for _, c := range seedCompanies {
		company := models.Company{
			Name:      c.name,
			Industry:  c.industry,
			CreatedAt: start,
		}
		if err := s.CreateCompany(ctx, &company); err != nil {
			return fmt.Errorf("seed company: %w", err)
		}
		companyIDs = append(companyIDs, company.ID)
	}

	for i := 0; i < contacts; i++ {
		createdAt := start.Add(time.Duration(rng.Int63n(int64(now.Sub(start)))))
		status := models.ContactLead
		if rng.Intn(100) < 35 {
			status = models.ContactCustomer
		}
		contact := models.Contact{
			Name:      seedFirstNames[rng.Intn(len(seedFirstNames))] + " " + seedLastNames[rng.Intn(len(seedLastNames))],
			Status:    status,
			OwnerID:   seedOwners[rng.Intn(len(seedOwners))],
			CreatedAt: createdAt,
		}
		contact.Email = fmt.Sprintf("contact%d@example.com", i+1)
		if rng.Intn(100) < 70 {
			cid := companyIDs[rng.Intn(len(companyIDs))]
			contact.CompanyID = &cid
		}
		if err := s.CreateContact(ctx, &contact); err != nil {
			return fmt.Errorf("seed contact: %w", err)
		}

		if err := s.seedDeals(ctx, rng, contact, now); err != nil {
			return err
		}
		if err := s.seedActivities(ctx, rng, contact, now); err != nil {
			return err
		}
		if err := s.seedTasks(ctx, rng, contact, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedDeals(ctx context.Context, rng *rand.Rand, contact models.Contact, now time.Time) error {
	for n := rng.Intn(3); n > 0; n-- {
		createdAt := contact.CreatedAt.Add(time.Duration(rng.Intn(72)) * time.Hour)
		if createdAt.After(now) {
			createdAt = now
		}

		stages := models.DealStages()
		// index of the furthest stage reached; closed_won/closed_lost mean the deal is done
		reached := rng.Intn(len(stages))
		deal := models.Deal{
			Title:     "Deal with " + contact.Name,
			Value:     int64(rng.Intn(490)+10) * 1000, // cents
			Stage:     stages[0],
			Status:    models.DealOpen,
			ContactID: contact.ID,
			CompanyID: contact.CompanyID,
			OwnerID:   contact.OwnerID,
			CreatedAt: createdAt,
		}
		switch stages[reached] {
		case models.StageClosedWon:
			deal.Status = models.DealWon
		case models.StageClosedLost:
			deal.Status = models.DealLost
		}
		deal.Stage = stages[reached]

		at := createdAt
		if deal.Status.Closed() {
			closeAt := createdAt.Add(time.Duration(rng.Intn(40*24)+24) * time.Hour)
			if closeAt.After(now) {
				closeAt = now
			}
			deal.ActualCloseDate = &closeAt
		} else {
			expected := now.AddDate(0, 0, rng.Intn(60)+1)
			deal.ExpectedCloseDate = &expected
		}

		if err := s.CreateDeal(ctx, &deal); err != nil {
			return fmt.Errorf("seed deal: %w", err)
		}
		// record the full transition trail up to the reached stage
		for i := 0; i <= reached; i++ {
			if i > 0 {
				at = at.Add(time.Duration(rng.Intn(7*24)+6) * time.Hour)
			}
			if deal.ActualCloseDate != nil && at.After(*deal.ActualCloseDate) {
				at = *deal.ActualCloseDate
			}
			if err := s.RecordStageChange(ctx, deal.ID, stages[i], at); err != nil {
				return fmt.Errorf("seed stage history: %w", err)
			}
		}
	}
	return nil
}

func (s *Store) seedActivities(ctx context.Context, rng *rand.Rand, contact models.Contact, now time.Time) error {
	types := models.ActivityTypes()
	subjects := map[models.ActivityType]string{
		models.ActivityCall:    "Intro call",
		models.ActivityEmail:   "Follow-up email",
		models.ActivityMeeting: "Demo meeting",
		models.ActivityNote:    "Account note",
	}
	for n := rng.Intn(6); n > 0; n-- {
		at := contact.CreatedAt.Add(time.Duration(rng.Int63n(int64(now.Sub(contact.CreatedAt)) + 1)))
		typ := types[rng.Intn(len(types))]
		activity := models.Activity{
			Type:      typ,
			Subject:   subjects[typ],
			ContactID: contact.ID,
			OwnerID:   contact.OwnerID,
			CreatedAt: at,
		}
		if err := s.CreateActivity(ctx, &activity); err != nil {
			return fmt.Errorf("seed activity: %w", err)
		}
	}
	return nil
}

func (s *Store) seedTasks(ctx context.Context, rng *rand.Rand, contact models.Contact, now time.Time) error {
	priorities := models.TaskPriorities()
	for n := rng.Intn(3); n > 0; n-- {
		task := models.Task{
			Title:     "Follow up with " + contact.Name,
			Priority:  priorities[rng.Intn(len(priorities))],
			ContactID: &contact.ID,
			OwnerID:   contact.OwnerID,
			CreatedAt: contact.CreatedAt,
		}
		due := contact.CreatedAt.AddDate(0, 0, rng.Intn(21)-7)
		task.DueDate = &due
		if rng.Intn(100) < 55 {
			doneAt := contact.CreatedAt.Add(time.Duration(rng.Intn(10*24)+1) * time.Hour)
			if doneAt.After(now) {
				doneAt = now
			}
			task.Completed = true
			task.CompletedAt = &doneAt
		}
		if err := s.CreateTask(ctx, &task); err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
	}
	return nil
}
