package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/logger"
)

// EnrollmentService registers students into sections, enforcing registration
// windows, capacity and prerequisites.
type EnrollmentService struct {
	pool          *pgxpool.Pool
	courseRepo    *repositories.CourseRepository
	studentRepo   *repositories.StudentRepository
	academic      *AcademicService
	notifications *NotificationService
	userRepo      *repositories.UserRepository
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	pool *pgxpool.Pool,
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
	academic *AcademicService,
	notifications *NotificationService,
	userRepo *repositories.UserRepository,
) *EnrollmentService {
	return &EnrollmentService{
		pool:          pool,
		courseRepo:    courseRepo,
		studentRepo:   studentRepo,
		academic:      academic,
		notifications: notifications,
		userRepo:      userRepo,
	}
}

// Enroll registers a student into a section. The capacity check runs under a
// section row lock so concurrent requests cannot oversubscribe.
func (s *EnrollmentService) Enroll(ctx context.Context, tenantID int64, req *dto.EnrollRequest) (*models.Enrollment, error) {
	student, err := s.studentRepo.GetByID(ctx, tenantID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Standing != models.StandingEnrolled {
		return nil, apperrors.NewForbiddenError("student standing does not permit enrollment")
	}

	section, err := s.courseRepo.GetSectionByID(ctx, tenantID, req.SectionID)
	if err != nil {
		return nil, err
	}

	open, err := s.academic.IsOpen(ctx, tenantID, section.SemesterID, time.Now(),
		models.PeriodRegular, models.PeriodLate)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, apperrors.ErrRegistrationClosed
	}

	course, err := s.courseRepo.GetCourseByID(ctx, tenantID, section.CourseID)
	if err != nil {
		return nil, err
	}
	if len(course.Prerequisites) > 0 {
		completed, err := s.courseRepo.CompletedCourseIDs(ctx, tenantID, student.ID)
		if err != nil {
			return nil, err
		}
		for _, prereqID := range course.Prerequisites {
			if !completed[prereqID] {
				return nil, apperrors.NewCustomError(apperrors.ErrPrerequisiteNotMet,
					fmt.Sprintf("prerequisite course %d not completed", prereqID))
			}
		}
	}

	enrollment := &models.Enrollment{
		TenantID:  tenantID,
		StudentID: student.ID,
		SectionID: section.ID,
		Status:    models.EnrollmentEnrolled,
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		enrolled, capacity, err := s.courseRepo.CountEnrolled(ctx, tx, tenantID, section.ID)
		if err != nil {
			return err
		}
		if enrolled >= capacity {
			return apperrors.ErrSectionFull
		}
		return s.courseRepo.CreateEnrollment(ctx, tx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	if student.User != nil {
		subject := "Enrollment confirmed"
		body := fmt.Sprintf("You are enrolled in %s %s, section %d.", course.Code, course.Title, section.Number)
		if err := s.notifications.Dispatch(ctx, student.User, models.CategoryEnrollment, subject, body); err != nil {
			logger.Warn().Err(err).Int64("enrollmentId", enrollment.ID).Msg("Failed to send enrollment notification")
		}
	}

	enrollment.Section = section
	enrollment.Student = student
	return enrollment, nil
}

// Drop withdraws a student from a section. Allowed while a REGULAR, LATE or
// DROP_ADD window is open.
func (s *EnrollmentService) Drop(ctx context.Context, tenantID, enrollmentID int64) error {
	enrollment, err := s.courseRepo.GetEnrollmentByID(ctx, tenantID, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.Status != models.EnrollmentEnrolled {
		return apperrors.NewConflictError("enrollment is not active")
	}

	open, err := s.academic.IsOpen(ctx, tenantID, enrollment.Section.SemesterID, time.Now(),
		models.PeriodRegular, models.PeriodLate, models.PeriodDropAdd)
	if err != nil {
		return err
	}
	if !open {
		return apperrors.ErrRegistrationClosed
	}

	return s.courseRepo.UpdateEnrollmentStatus(ctx, tenantID, enrollmentID, models.EnrollmentDropped)
}

// Get retrieves an enrollment
func (s *EnrollmentService) Get(ctx context.Context, tenantID, id int64) (*models.Enrollment, error) {
	return s.courseRepo.GetEnrollmentByID(ctx, tenantID, id)
}

// ListForSection retrieves the roster of a section
func (s *EnrollmentService) ListForSection(ctx context.Context, tenantID, sectionID int64) ([]*models.Enrollment, error) {
	return s.courseRepo.ListSectionEnrollments(ctx, tenantID, sectionID)
}

// ListForStudent retrieves a student's enrollments, optionally for one semester
func (s *EnrollmentService) ListForStudent(ctx context.Context, tenantID, studentID, semesterID int64) ([]*models.Enrollment, error) {
	return s.courseRepo.ListStudentEnrollments(ctx, tenantID, studentID, semesterID)
}
