package models

import "time"

// AcademicYear is the top-level scheduling period, e.g. "2025-2026".
type AcademicYear struct {
	ID        int64     `json:"id" db:"id"`
	TenantID  int64     `json:"tenantId" db:"tenant_id"`
	Code      string    `json:"code" db:"code"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	IsCurrent bool      `json:"isCurrent" db:"is_current"` // at most one per tenant
}

// Semester belongs to an academic year.
type Semester struct {
	ID             int64         `json:"id" db:"id"`
	TenantID       int64         `json:"tenantId" db:"tenant_id"`
	AcademicYearID int64         `json:"academicYearId" db:"academic_year_id"`
	Term           Term          `json:"term" db:"term"`
	StartDate      time.Time     `json:"startDate" db:"start_date"`
	EndDate        time.Time     `json:"endDate" db:"end_date"`
	AcademicYear   *AcademicYear `json:"academicYear,omitempty"` // relation, no db tag
}

// RegistrationPeriodKind distinguishes the enrollment windows of a semester.
type RegistrationPeriodKind string

const (
	PeriodRegular RegistrationPeriodKind = "REGULAR"
	PeriodLate    RegistrationPeriodKind = "LATE"
	PeriodDropAdd RegistrationPeriodKind = "DROP_ADD"
)

// RegistrationPeriod is a time window during which enrollment actions are permitted.
type RegistrationPeriod struct {
	ID         int64                  `json:"id" db:"id"`
	TenantID   int64                  `json:"tenantId" db:"tenant_id"`
	SemesterID int64                  `json:"semesterId" db:"semester_id"`
	Kind       RegistrationPeriodKind `json:"kind" db:"kind"`
	StartsAt   time.Time              `json:"startsAt" db:"starts_at"`
	EndsAt     time.Time              `json:"endsAt" db:"ends_at"`
}

// Contains reports whether the period window covers the given instant.
func (p *RegistrationPeriod) Contains(at time.Time) bool {
	return !at.Before(p.StartsAt) && at.Before(p.EndsAt)
}

// Department groups courses, students and instructors.
type Department struct {
	ID       int64  `json:"id" db:"id"`
	TenantID int64  `json:"tenantId" db:"tenant_id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
}
