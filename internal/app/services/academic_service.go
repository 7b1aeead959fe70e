package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/cache"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/helpers"
)

// AcademicService manages academic years, semesters, registration periods and
// departments.
type AcademicService struct {
	pool         *pgxpool.Pool
	academicRepo *repositories.AcademicRepository
	cache        cache.Store
}

// NewAcademicService creates a new academic service
func NewAcademicService(pool *pgxpool.Pool, academicRepo *repositories.AcademicRepository, store cache.Store) *AcademicService {
	return &AcademicService{
		pool:         pool,
		academicRepo: academicRepo,
		cache:        store,
	}
}

// CreateAcademicYear defines a new academic year
func (s *AcademicService) CreateAcademicYear(ctx context.Context, tenantID int64, req *dto.CreateAcademicYearRequest) (*models.AcademicYear, error) {
	start, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid start date")
	}
	end, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid end date")
	}
	if !start.Before(end) {
		return nil, apperrors.NewBadRequestError("start date must precede end date")
	}

	existing, err := s.academicRepo.ListAcademicYears(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if start.Before(other.EndDate) && other.StartDate.Before(end) {
			return nil, apperrors.ErrAcademicYearOverlap
		}
	}

	year := &models.AcademicYear{
		TenantID:  tenantID,
		Code:      req.Code,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.academicRepo.CreateAcademicYear(ctx, year); err != nil {
		return nil, err
	}

	if req.IsCurrent {
		err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
			return s.academicRepo.SetCurrentAcademicYear(ctx, tx, tenantID, year.ID)
		})
		if err != nil {
			return nil, err
		}
		year.IsCurrent = true
	}

	s.forgetReference(ctx, tenantID)
	return year, nil
}

// ListAcademicYears retrieves a tenant's academic years through the cache
func (s *AcademicService) ListAcademicYears(ctx context.Context, tenantID int64) ([]*models.AcademicYear, error) {
	var years []*models.AcademicYear
	key := cache.Key(tenantID, "academic-years")
	err := s.cache.Remember(ctx, key, cache.ClassReference, &years, func() (interface{}, error) {
		return s.academicRepo.ListAcademicYears(ctx, tenantID)
	})
	return years, err
}

// SetCurrentAcademicYear marks one year current for the tenant
func (s *AcademicService) SetCurrentAcademicYear(ctx context.Context, tenantID, yearID int64) error {
	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return s.academicRepo.SetCurrentAcademicYear(ctx, tx, tenantID, yearID)
	})
	if err != nil {
		return err
	}
	s.forgetReference(ctx, tenantID)
	return nil
}

// CreateSemester adds a semester inside its academic year's date range
func (s *AcademicService) CreateSemester(ctx context.Context, tenantID int64, req *dto.CreateSemesterRequest) (*models.Semester, error) {
	year, err := s.academicRepo.GetAcademicYearByID(ctx, tenantID, req.AcademicYearID)
	if err != nil {
		return nil, err
	}

	start, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid start date")
	}
	end, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid end date")
	}
	if !start.Before(end) {
		return nil, apperrors.NewBadRequestError("start date must precede end date")
	}
	if start.Before(year.StartDate) || end.After(year.EndDate) {
		return nil, apperrors.ErrSemesterOutsideYear
	}

	semester := &models.Semester{
		TenantID:       tenantID,
		AcademicYearID: req.AcademicYearID,
		Term:           models.Term(req.Term),
		StartDate:      start,
		EndDate:        end,
	}
	if err := s.academicRepo.CreateSemester(ctx, semester); err != nil {
		return nil, err
	}

	s.forgetReference(ctx, tenantID)
	return semester, nil
}

// GetSemester retrieves a semester with its year
func (s *AcademicService) GetSemester(ctx context.Context, tenantID, id int64) (*models.Semester, error) {
	return s.academicRepo.GetSemesterByID(ctx, tenantID, id)
}

// ListSemesters retrieves the semesters of an academic year
func (s *AcademicService) ListSemesters(ctx context.Context, tenantID, academicYearID int64) ([]*models.Semester, error) {
	return s.academicRepo.ListSemesters(ctx, tenantID, academicYearID)
}

// CurrentSemester returns the semester of the current academic year covering
// the given instant.
func (s *AcademicService) CurrentSemester(ctx context.Context, tenantID int64, at time.Time) (*models.Semester, error) {
	year, err := s.academicRepo.GetCurrentAcademicYear(ctx, tenantID)
	if err != nil {
		return nil, apperrors.ErrNoCurrentAcademicYear
	}

	semesters, err := s.academicRepo.ListSemesters(ctx, tenantID, year.ID)
	if err != nil {
		return nil, err
	}
	for _, semester := range semesters {
		if !at.Before(semester.StartDate) && at.Before(semester.EndDate.AddDate(0, 0, 1)) {
			semester.AcademicYear = year
			return semester, nil
		}
	}
	return nil, apperrors.ErrSemesterNotFound
}

// CreateRegistrationPeriod opens an enrollment window for a semester
func (s *AcademicService) CreateRegistrationPeriod(ctx context.Context, tenantID int64, req *dto.CreateRegistrationPeriodRequest) (*models.RegistrationPeriod, error) {
	if _, err := s.academicRepo.GetSemesterByID(ctx, tenantID, req.SemesterID); err != nil {
		return nil, err
	}

	startsAt, err := helpers.ParseDateTime(req.StartsAt)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid period start")
	}
	endsAt, err := helpers.ParseDateTime(req.EndsAt)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid period end")
	}
	if !startsAt.Before(endsAt) {
		return nil, apperrors.ErrRegistrationPeriodInvert
	}

	period := &models.RegistrationPeriod{
		TenantID:   tenantID,
		SemesterID: req.SemesterID,
		Kind:       models.RegistrationPeriodKind(req.Kind),
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}
	if err := s.academicRepo.CreateRegistrationPeriod(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// IsOpen reports whether a registration window of any of the given kinds
// covers the instant.
func (s *AcademicService) IsOpen(ctx context.Context, tenantID, semesterID int64, at time.Time, kinds ...models.RegistrationPeriodKind) (bool, error) {
	periods, err := s.academicRepo.ListRegistrationPeriods(ctx, tenantID, semesterID)
	if err != nil {
		return false, err
	}
	for _, period := range periods {
		for _, kind := range kinds {
			if period.Kind == kind && period.Contains(at) {
				return true, nil
			}
		}
	}
	return false, nil
}

// CreateDepartment registers a department
func (s *AcademicService) CreateDepartment(ctx context.Context, tenantID int64, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	dept := &models.Department{
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
	}
	if err := s.academicRepo.CreateDepartment(ctx, dept); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.ErrDepartmentAlreadyExists
		}
		return nil, err
	}
	s.forgetReference(ctx, tenantID)
	return dept, nil
}

// ListDepartments retrieves a tenant's departments through the cache
func (s *AcademicService) ListDepartments(ctx context.Context, tenantID int64) ([]*models.Department, error) {
	var depts []*models.Department
	key := cache.Key(tenantID, "departments")
	err := s.cache.Remember(ctx, key, cache.ClassReference, &depts, func() (interface{}, error) {
		return s.academicRepo.ListDepartments(ctx, tenantID)
	})
	return depts, err
}

func (s *AcademicService) forgetReference(ctx context.Context, tenantID int64) {
	_ = s.cache.Forget(ctx,
		cache.Key(tenantID, "academic-years"),
		cache.Key(tenantID, "departments"),
	)
}
