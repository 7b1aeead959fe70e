package models

import "time"

// ApplicationStatus is the admissions state machine.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationWaitlisted  ApplicationStatus = "WAITLISTED"
)

// Application is an admissions application for a department program.
type Application struct {
	ID             int64             `json:"id" db:"id"`
	TenantID       int64             `json:"tenantId" db:"tenant_id"`
	Reference      string            `json:"reference" db:"reference"` // uuid shown to the applicant
	FirstName      string            `json:"firstName" db:"first_name"`
	LastName       string            `json:"lastName" db:"last_name"`
	Email          string            `json:"email" db:"email"`
	Phone          *string           `json:"phone,omitempty" db:"phone"`
	DepartmentID   int64             `json:"departmentId" db:"department_id"`
	AcademicYearID int64             `json:"academicYearId" db:"academic_year_id"`
	Status         ApplicationStatus `json:"status" db:"status"`
	DecisionNotes  *string           `json:"decisionNotes,omitempty" db:"decision_notes"`
	DecidedBy      *int64            `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt      *time.Time        `json:"decidedAt,omitempty" db:"decided_at"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	Department     *Department       `json:"department,omitempty"` // relation, no db tag
}

// CanTransitionTo reports whether the admissions state machine allows the move.
// SUBMITTED -> UNDER_REVIEW; UNDER_REVIEW -> ACCEPTED/REJECTED/WAITLISTED;
// WAITLISTED -> UNDER_REVIEW. Terminal states never transition.
func (a *Application) CanTransitionTo(next ApplicationStatus) bool {
	switch a.Status {
	case ApplicationSubmitted:
		return next == ApplicationUnderReview
	case ApplicationUnderReview:
		return next == ApplicationAccepted || next == ApplicationRejected || next == ApplicationWaitlisted
	case ApplicationWaitlisted:
		return next == ApplicationUnderReview
	default:
		return false
	}
}
