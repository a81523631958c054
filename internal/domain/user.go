package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Email           string         `json:"email" db:"email"`
	FullName        string         `json:"full_name" db:"full_name"`
	Role            UserRole       `json:"role" db:"role"`
	County          *string        `json:"county,omitempty" db:"county"`
	Ward            *string        `json:"ward,omitempty" db:"ward"`
	Specializations pq.StringArray `json:"specializations,omitempty" db:"specializations"`
	IsVerified      bool           `json:"is_verified" db:"is_verified"`
	IsApproved      bool           `json:"is_approved" db:"is_approved"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time     `json:"-" db:"deleted_at"`
}

type UserRole string

const (
	RoleCitizen        UserRole = "citizen"
	RoleRepresentative UserRole = "representative"
	RoleAdmin          UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleCitizen, RoleRepresentative, RoleAdmin:
		return true
	default:
		return false
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsRepresentative() bool {
	return u.Role == RoleRepresentative
}

// CanAssignIssue reports whether the user may assign an issue at all.
// Representatives may only self-assign; the issue service enforces that part.
func (u *User) CanAssignIssue() bool {
	return u.Role == RoleRepresentative || u.Role == RoleAdmin
}

// CanTransitionIssue reports whether the user may change the status of the
// given issue: admins always, citizens only on issues they reported,
// representatives only on issues currently assigned to them.
func (u *User) CanTransitionIssue(issue *Issue) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleCitizen:
		return issue.ReporterID == u.ID
	case RoleRepresentative:
		return issue.AssigneeID != nil && *issue.AssigneeID == u.ID
	default:
		return false
	}
}
