package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/helpers"
	"github.com/campora/campora/internal/pkg/logger"
)

// AttendanceService records attendance and computes absence summaries
type AttendanceService struct {
	pool             *pgxpool.Pool
	attendanceRepo   *repositories.AttendanceRepository
	courseRepo       *repositories.CourseRepository
	studentRepo      *repositories.StudentRepository
	notifications    *NotificationService
	absenceThreshold float64
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	pool *pgxpool.Pool,
	attendanceRepo *repositories.AttendanceRepository,
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
	notifications *NotificationService,
	absenceThreshold float64,
) *AttendanceService {
	return &AttendanceService{
		pool:             pool,
		attendanceRepo:   attendanceRepo,
		courseRepo:       courseRepo,
		studentRepo:      studentRepo,
		notifications:    notifications,
		absenceThreshold: absenceThreshold,
	}
}

// BulkRecord records attendance for one section meeting. Re-submitting for
// the same date replaces earlier statuses. Only the section instructor may
// record.
func (s *AttendanceService) BulkRecord(ctx context.Context, tenantID, sectionID int64, req *dto.BulkAttendanceRequest, recordedBy int64) error {
	section, err := s.courseRepo.GetSectionByID(ctx, tenantID, sectionID)
	if err != nil {
		return err
	}
	if section.InstructorID != recordedBy {
		return apperrors.NewForbiddenError("only the section instructor can record attendance")
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return apperrors.NewBadRequestError("invalid attendance date")
	}

	enrollments, err := s.courseRepo.ListSectionEnrollments(ctx, tenantID, sectionID)
	if err != nil {
		return err
	}
	active := make(map[int64]bool, len(enrollments))
	for _, e := range enrollments {
		if e.Status == models.EnrollmentEnrolled {
			active[e.ID] = true
		}
	}
	for _, entry := range req.Entries {
		if !active[entry.EnrollmentID] {
			return apperrors.NewBadRequestError(
				fmt.Sprintf("enrollment %d is not active in this section", entry.EnrollmentID))
		}
	}

	return db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, entry := range req.Entries {
			record := &models.AttendanceRecord{
				TenantID:     tenantID,
				EnrollmentID: entry.EnrollmentID,
				Date:         date,
				Status:       models.AttendanceStatus(entry.Status),
				RecordedBy:   recordedBy,
			}
			if err := s.attendanceRepo.UpsertRecord(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListForEnrollment retrieves an enrollment's attendance history
func (s *AttendanceService) ListForEnrollment(ctx context.Context, tenantID, enrollmentID int64) ([]*models.AttendanceRecord, error) {
	return s.attendanceRepo.ListForEnrollment(ctx, tenantID, enrollmentID)
}

// SectionReport aggregates attendance per enrollment and flags students whose
// absence rate exceeds the configured threshold.
func (s *AttendanceService) SectionReport(ctx context.Context, tenantID, sectionID int64) ([]*models.AttendanceSummary, error) {
	summaries, err := s.attendanceRepo.SectionSummaries(ctx, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		applyAbsenceRate(summary, s.absenceThreshold)
	}
	return summaries, nil
}

// NotifyFlagged sends an attendance warning to every flagged student of a
// section.
func (s *AttendanceService) NotifyFlagged(ctx context.Context, tenantID, sectionID int64) (int, error) {
	summaries, err := s.SectionReport(ctx, tenantID, sectionID)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, summary := range summaries {
		if !summary.Flagged {
			continue
		}
		student, err := s.studentRepo.GetByID(ctx, tenantID, summary.StudentID)
		if err != nil || student.User == nil {
			logger.Warn().Err(err).Int64("studentId", summary.StudentID).Msg("Skipping attendance notice")
			continue
		}
		subject := "Attendance warning"
		body := fmt.Sprintf("Your absence rate is %.0f%%, above the permitted limit.", summary.AbsenceRate*100)
		if err := s.notifications.Dispatch(ctx, student.User, models.CategoryAttendance, subject, body); err != nil {
			logger.Warn().Err(err).Int64("studentId", summary.StudentID).Msg("Failed to send attendance notice")
			continue
		}
		notified++
	}
	return notified, nil
}

// applyAbsenceRate fills the derived fields of a summary. Only ABSENT counts
// against the student; LATE and EXCUSED do not.
func applyAbsenceRate(summary *models.AttendanceSummary, threshold float64) {
	if summary.Total == 0 {
		summary.AbsenceRate = 0
		summary.Flagged = false
		return
	}
	summary.AbsenceRate = float64(summary.Absent) / float64(summary.Total)
	summary.Flagged = summary.AbsenceRate > threshold
}
