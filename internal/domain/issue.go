package domain

import (
	"time"

	"github.com/google/uuid"
)

type IssueStatus string

const (
	IssueReported     IssueStatus = "reported"
	IssueAcknowledged IssueStatus = "acknowledged"
	IssueInProgress   IssueStatus = "in_progress"
	IssueBlocked      IssueStatus = "blocked"
	IssueUnderReview  IssueStatus = "under_review"
	IssueResolved     IssueStatus = "resolved"
	IssueClosed       IssueStatus = "closed"
)

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueReported, IssueAcknowledged, IssueInProgress, IssueBlocked,
		IssueUnderReview, IssueResolved, IssueClosed:
		return true
	default:
		return false
	}
}

type Issue struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Category    string      `json:"category" db:"category"`
	Status      IssueStatus `json:"status" db:"status"`
	Priority    string      `json:"priority" db:"priority"`
	ReporterID  uuid.UUID   `json:"reporter_id" db:"reporter_id"`
	AssigneeID  *uuid.UUID  `json:"assignee_id,omitempty" db:"assignee_id"`
	Location    *string     `json:"location,omitempty" db:"location"`
	County      string      `json:"county" db:"county"`
	Ward        *string     `json:"ward,omitempty" db:"ward"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// IssueStatusHistory rows are append-only: one per transition, never updated
// or deleted, including the initial "reported" row written at creation.
type IssueStatusHistory struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	IssueID   uuid.UUID   `json:"issue_id" db:"issue_id"`
	Status    IssueStatus `json:"status" db:"status"`
	ActorID   uuid.UUID   `json:"actor_id" db:"actor_id"`
	ActorName *string     `json:"actor_name,omitempty" db:"actor_name"`
	Note      *string     `json:"note,omitempty" db:"note"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

type CreateIssueInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Priority    string  `json:"priority"`
	Location    *string `json:"location,omitempty"`
	County      string  `json:"county" validate:"required"`
	Ward        *string `json:"ward,omitempty"`
}

type AssignIssueInput struct {
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
}

type TransitionIssueInput struct {
	Status IssueStatus `json:"status" validate:"required"`
	Note   *string     `json:"note,omitempty"`
}

type IssueFilter struct {
	ReporterID *uuid.UUID
	AssigneeID *uuid.UUID
	County     *string
	Status     *IssueStatus
}

// CategorySpecializations maps an issue category to the representative
// specialization tags that qualify for it. A category with no entry matches
// every representative in the county.
var CategorySpecializations = map[string][]string{
	"infrastructure": {"Infrastructure & Roads", "Public Works"},
	"water":          {"Water & Sanitation"},
	"health":         {"Health Services"},
	"education":      {"Education"},
	"security":       {"Security"},
	"environment":    {"Environment & Natural Resources"},
	"housing":        {"Housing & Urban Planning"},
}
