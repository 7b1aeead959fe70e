package models

import "time"

// AttendanceStatus records presence for one section meeting.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// AttendanceRecord is one enrollment's attendance on one date.
type AttendanceRecord struct {
	ID           int64            `json:"id" db:"id"`
	TenantID     int64            `json:"tenantId" db:"tenant_id"`
	EnrollmentID int64            `json:"enrollmentId" db:"enrollment_id"`
	Date         time.Time        `json:"date" db:"date"`
	Status       AttendanceStatus `json:"status" db:"status"`
	RecordedBy   int64            `json:"recordedBy" db:"recorded_by"`
	RecordedAt   time.Time        `json:"recordedAt" db:"recorded_at"`
}

// AttendanceSummary aggregates one enrollment's attendance.
type AttendanceSummary struct {
	EnrollmentID int64   `json:"enrollmentId"`
	StudentID    int64   `json:"studentId"`
	Total        int     `json:"total"`
	Present      int     `json:"present"`
	Late         int     `json:"late"`
	Excused      int     `json:"excused"`
	Absent       int     `json:"absent"`
	AbsenceRate  float64 `json:"absenceRate"`
	Flagged      bool    `json:"flagged"` // absence rate over the configured threshold
}
