package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/auth"
	"github.com/campora/campora/internal/pkg/helpers"
	"github.com/campora/campora/internal/pkg/logger"
)

// AdmissionService manages the application state machine and the acceptance
// flow that turns an applicant into a student.
type AdmissionService struct {
	pool            *pgxpool.Pool
	applicationRepo *repositories.ApplicationRepository
	academicRepo    *repositories.AcademicRepository
	userRepo        *repositories.UserRepository
	studentRepo     *repositories.StudentRepository
	notifications   *NotificationService
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	pool *pgxpool.Pool,
	applicationRepo *repositories.ApplicationRepository,
	academicRepo *repositories.AcademicRepository,
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	notifications *NotificationService,
) *AdmissionService {
	return &AdmissionService{
		pool:            pool,
		applicationRepo: applicationRepo,
		academicRepo:    academicRepo,
		userRepo:        userRepo,
		studentRepo:     studentRepo,
		notifications:   notifications,
	}
}

// Submit files a new application in SUBMITTED state
func (s *AdmissionService) Submit(ctx context.Context, tenantID int64, req *dto.CreateApplicationRequest) (*models.Application, error) {
	if _, err := s.academicRepo.GetDepartmentByID(ctx, tenantID, req.DepartmentID); err != nil {
		return nil, err
	}
	if _, err := s.academicRepo.GetAcademicYearByID(ctx, tenantID, req.AcademicYearID); err != nil {
		return nil, err
	}

	app := &models.Application{
		TenantID:       tenantID,
		Reference:      uuid.New().String(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DepartmentID:   req.DepartmentID,
		AcademicYearID: req.AcademicYearID,
		Status:         models.ApplicationSubmitted,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Get retrieves an application
func (s *AdmissionService) Get(ctx context.Context, tenantID, id int64) (*models.Application, error) {
	return s.applicationRepo.GetByID(ctx, tenantID, id)
}

// List retrieves applications with filters
func (s *AdmissionService) List(ctx context.Context, tenantID int64, status string, academicYearID int64, page, size int) ([]*models.Application, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	apps, total, err := s.applicationRepo.List(ctx, tenantID, status, academicYearID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return apps, helpers.NewPaginationInfo(total, page, size), nil
}

// Decide moves an application through its state machine. An acceptance also
// creates the user account and student record and sends a welcome message.
func (s *AdmissionService) Decide(ctx context.Context, tenantID, applicationID int64, req *dto.ApplicationDecisionRequest, decidedBy int64) (*models.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, tenantID, applicationID)
	if err != nil {
		return nil, err
	}

	next := models.ApplicationStatus(req.Status)
	if !app.CanTransitionTo(next) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move application from %s to %s", app.Status, next))
	}

	if next == models.ApplicationAccepted {
		if err := s.accept(ctx, app, req.Notes, decidedBy); err != nil {
			return nil, err
		}
	} else if err := s.applicationRepo.UpdateStatus(ctx, tenantID, applicationID, app.Status, next, req.Notes, decidedBy); err != nil {
		return nil, err
	}
	app.Status = next
	app.DecisionNotes = req.Notes
	return app, nil
}

// accept provisions the student: user account with a temporary password,
// student record with a generated number, and a welcome notification. The
// status flip commits with the provisioning so a failed or racing decision
// leaves neither half behind.
func (s *AdmissionService) accept(ctx context.Context, app *models.Application, notes *string, decidedBy int64) error {
	dept, err := s.academicRepo.GetDepartmentByID(ctx, app.TenantID, app.DepartmentID)
	if err != nil {
		return err
	}
	year, err := s.academicRepo.GetAcademicYearByID(ctx, app.TenantID, app.AcademicYearID)
	if err != nil {
		return err
	}
	enrollmentYear := year.StartDate.Year()

	tempPassword := uuid.New().String()[:12]
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return err
	}

	user := &models.User{
		TenantID:  app.TenantID,
		Email:     app.Email,
		Password:  hash,
		FirstName: app.FirstName,
		LastName:  app.LastName,
		Phone:     app.Phone,
		Role:      models.RoleStudent,
		IsActive:  true,
	}

	var student *models.Student
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}

		serial, err := s.studentRepo.NextSerial(ctx, tx, app.TenantID, enrollmentYear)
		if err != nil {
			return err
		}

		student = &models.Student{
			TenantID:       app.TenantID,
			UserID:         user.ID,
			StudentNumber:  fmt.Sprintf("%d%s%04d", enrollmentYear, dept.Code, serial),
			DepartmentID:   app.DepartmentID,
			EnrollmentYear: enrollmentYear,
			Standing:       models.StandingEnrolled,
		}
		if err := s.studentRepo.Create(ctx, tx, student); err != nil {
			return err
		}

		return s.applicationRepo.UpdateStatusTx(ctx, tx, app.TenantID, app.ID,
			app.Status, models.ApplicationAccepted, notes, decidedBy)
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int64("tenantId", app.TenantID).
		Str("studentNumber", student.StudentNumber).
		Str("reference", app.Reference).
		Msg("Application accepted, student provisioned")

	subject := "Welcome to " + dept.Name
	body := fmt.Sprintf(
		"Your application %s has been accepted. Your student number is %s. Your temporary password is %s; change it after your first login.",
		app.Reference, student.StudentNumber, tempPassword,
	)
	if err := s.notifications.Dispatch(ctx, user, models.CategoryEnrollment, subject, body); err != nil {
		logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to send welcome notification")
	}

	return nil
}
