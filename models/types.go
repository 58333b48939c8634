// ABOUTME: Data models for CRM entities consumed by the analytics engine
// ABOUTME: Defines Contact, Company, Deal, Activity, Task and their closed enums
package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the lifecycle stage of a contact.
type ContactStatus string

const (
	ContactLead     ContactStatus = "lead"
	ContactCustomer ContactStatus = "customer"
)

func (s ContactStatus) Valid() bool {
	return s == ContactLead || s == ContactCustomer
}

// DealStage is the pipeline stage of a deal.
type DealStage string

const (
	StageLead        DealStage = "lead"
	StageQualified   DealStage = "qualified"
	StageProposal    DealStage = "proposal"
	StageNegotiation DealStage = "negotiation"
	StageClosedWon   DealStage = "closed_won"
	StageClosedLost  DealStage = "closed_lost"
)

// DealStages returns every stage in pipeline order.
func DealStages() []DealStage {
	return []DealStage{
		StageLead,
		StageQualified,
		StageProposal,
		StageNegotiation,
		StageClosedWon,
		StageClosedLost,
	}
}

func (s DealStage) Valid() bool {
	for _, stage := range DealStages() {
		if s == stage {
			return true
		}
	}
	return false
}

// DealStatus is the outcome state of a deal.
type DealStatus string

const (
	DealOpen DealStatus = "open"
	DealWon  DealStatus = "won"
	DealLost DealStatus = "lost"
)

func (s DealStatus) Valid() bool {
	return s == DealOpen || s == DealWon || s == DealLost
}

// Closed reports whether the deal has reached a terminal status.
func (s DealStatus) Closed() bool {
	return s == DealWon || s == DealLost
}

// ActivityType is the kind of logged activity.
type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
	ActivityNote    ActivityType = "note"
)

// ActivityTypes returns every activity type in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote}
}

func (t ActivityType) Valid() bool {
	for _, at := range ActivityTypes() {
		if t == at {
			return true
		}
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskPriorities returns every priority in ascending order.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Contact struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	Status    ContactStatus `json:"status"`
	CompanyID *uuid.UUID    `json:"company_id,omitempty"`
	OwnerID   string        `json:"owner_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deal value is in cents. ActualCloseDate is set iff Status is won or lost.
type Deal struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Value             int64      `json:"value"` // in cents
	Stage             DealStage  `json:"stage"`
	Status            DealStatus `json:"status"`
	ContactID         uuid.UUID  `json:"contact_id"`
	CompanyID         *uuid.UUID `json:"company_id,omitempty"`
	OwnerID           string     `json:"owner_id"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time `json:"actual_close_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DealStageHistory records one stage transition of a deal.
type DealStageHistory struct {
	ID        uuid.UUID `json:"id"`
	DealID    uuid.UUID `json:"deal_id"`
	ToStage   DealStage `json:"to_stage"`
	ChangedAt time.Time `json:"changed_at"`
}

type Activity struct {
	ID        uuid.UUID    `json:"id"`
	Type      ActivityType `json:"type"`
	Subject   string       `json:"subject,omitempty"`
	ContactID uuid.UUID    `json:"contact_id"`
	OwnerID   string       `json:"owner_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// Task CompletedAt is set iff Completed is true.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Priority    TaskPriority `json:"priority"`
	Completed   bool         `json:"completed"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	ContactID   *uuid.UUID   `json:"contact_id,omitempty"`
	OwnerID     string       `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
}
