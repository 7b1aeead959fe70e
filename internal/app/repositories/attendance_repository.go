package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
)

// AttendanceRepository handles attendance records and summaries
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// UpsertRecord records attendance for one enrollment on one date. Recording
// again for the same date replaces the previous status.
func (r *AttendanceRepository) UpsertRecord(ctx context.Context, tx pgx.Tx, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (tenant_id, enrollment_id, date, status, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, enrollment_id, date)
		DO UPDATE SET status = EXCLUDED.status, recorded_by = EXCLUDED.recorded_by, recorded_at = now()
		RETURNING id, recorded_at
	`

	err := tx.QueryRow(ctx, query,
		record.TenantID, record.EnrollmentID, record.Date, record.Status, record.RecordedBy,
	).Scan(&record.ID, &record.RecordedAt)
	if err != nil {
		return fmt.Errorf("error recording attendance: %w", err)
	}

	return nil
}

// ListForEnrollment retrieves an enrollment's attendance records by date
func (r *AttendanceRepository) ListForEnrollment(ctx context.Context, tenantID, enrollmentID int64) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT id, tenant_id, enrollment_id, date, status, recorded_by, recorded_at
		FROM attendance_records
		WHERE tenant_id = $1 AND enrollment_id = $2
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, tenantID, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.EnrollmentID, &rec.Date, &rec.Status, &rec.RecordedBy, &rec.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ListForSectionDate retrieves all attendance records of a section on one date
func (r *AttendanceRepository) ListForSectionDate(ctx context.Context, tenantID, sectionID int64, date time.Time) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.tenant_id, a.enrollment_id, a.date, a.status, a.recorded_by, a.recorded_at
		FROM attendance_records a
		JOIN enrollments e ON e.id = a.enrollment_id
		WHERE a.tenant_id = $1 AND e.section_id = $2 AND a.date = $3
		ORDER BY a.enrollment_id
	`

	rows, err := r.db.Query(ctx, query, tenantID, sectionID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.EnrollmentID, &rec.Date, &rec.Status, &rec.RecordedBy, &rec.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// SectionSummaries aggregates per-enrollment attendance counts for a section.
// AbsenceRate and Flagged are filled by the caller.
func (r *AttendanceRepository) SectionSummaries(ctx context.Context, tenantID, sectionID int64) ([]*models.AttendanceSummary, error) {
	query := `
		SELECT e.id, e.student_id,
		       COUNT(a.id),
		       COUNT(a.id) FILTER (WHERE a.status = 'PRESENT'),
		       COUNT(a.id) FILTER (WHERE a.status = 'LATE'),
		       COUNT(a.id) FILTER (WHERE a.status = 'EXCUSED'),
		       COUNT(a.id) FILTER (WHERE a.status = 'ABSENT')
		FROM enrollments e
		LEFT JOIN attendance_records a ON a.enrollment_id = e.id
		WHERE e.tenant_id = $1 AND e.section_id = $2 AND e.status = 'ENROLLED'
		GROUP BY e.id, e.student_id
		ORDER BY e.id
	`

	rows, err := r.db.Query(ctx, query, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.AttendanceSummary
	for rows.Next() {
		var s models.AttendanceSummary
		if err := rows.Scan(&s.EnrollmentID, &s.StudentID, &s.Total, &s.Present, &s.Late, &s.Excused, &s.Absent); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}
