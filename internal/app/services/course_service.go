package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/helpers"
)

// CourseService manages the course catalogue and section offerings
type CourseService struct {
	pool         *pgxpool.Pool
	courseRepo   *repositories.CourseRepository
	academicRepo *repositories.AcademicRepository
	userRepo     *repositories.UserRepository
}

// NewCourseService creates a new course service
func NewCourseService(
	pool *pgxpool.Pool,
	courseRepo *repositories.CourseRepository,
	academicRepo *repositories.AcademicRepository,
	userRepo *repositories.UserRepository,
) *CourseService {
	return &CourseService{
		pool:         pool,
		courseRepo:   courseRepo,
		academicRepo: academicRepo,
		userRepo:     userRepo,
	}
}

// CreateCourse adds a catalogue entry with optional prerequisites
func (s *CourseService) CreateCourse(ctx context.Context, tenantID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if _, err := s.academicRepo.GetDepartmentByID(ctx, tenantID, req.DepartmentID); err != nil {
		return nil, err
	}
	for _, prereqID := range req.Prerequisites {
		if _, err := s.courseRepo.GetCourseByID(ctx, tenantID, prereqID); err != nil {
			return nil, err
		}
	}

	course := &models.Course{
		TenantID:      tenantID,
		DepartmentID:  req.DepartmentID,
		Code:          req.Code,
		Title:         req.Title,
		Credits:       req.Credits,
		Prerequisites: req.Prerequisites,
	}
	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return s.courseRepo.CreateCourse(ctx, tx, course)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourse retrieves a catalogue entry
func (s *CourseService) GetCourse(ctx context.Context, tenantID, id int64) (*models.Course, error) {
	return s.courseRepo.GetCourseByID(ctx, tenantID, id)
}

// ListCourses retrieves the catalogue with an optional department filter
func (s *CourseService) ListCourses(ctx context.Context, tenantID, departmentID int64, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	courses, total, err := s.courseRepo.ListCourses(ctx, tenantID, departmentID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return courses, helpers.NewPaginationInfo(total, page, size), nil
}

// CreateSection opens a course offering for a semester. The instructor must
// be an active user with the INSTRUCTOR role.
func (s *CourseService) CreateSection(ctx context.Context, tenantID int64, req *dto.CreateSectionRequest) (*models.Section, error) {
	if _, err := s.courseRepo.GetCourseByID(ctx, tenantID, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.academicRepo.GetSemesterByID(ctx, tenantID, req.SemesterID); err != nil {
		return nil, err
	}

	instructor, err := s.userRepo.GetByID(ctx, tenantID, req.InstructorID)
	if err != nil {
		return nil, err
	}
	if instructor.Role != models.RoleInstructor {
		return nil, apperrors.NewBadRequestError("assigned user is not an instructor")
	}

	section := &models.Section{
		TenantID:     tenantID,
		CourseID:     req.CourseID,
		SemesterID:   req.SemesterID,
		InstructorID: req.InstructorID,
		Number:       req.Number,
		Capacity:     req.Capacity,
	}
	if err := s.courseRepo.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return s.courseRepo.GetSectionByID(ctx, tenantID, section.ID)
}

// GetSection retrieves a section with its course and enrolled count
func (s *CourseService) GetSection(ctx context.Context, tenantID, id int64) (*models.Section, error) {
	return s.courseRepo.GetSectionByID(ctx, tenantID, id)
}

// ListSections retrieves the sections of a semester
func (s *CourseService) ListSections(ctx context.Context, tenantID, semesterID, courseID int64) ([]*models.Section, error) {
	return s.courseRepo.ListSections(ctx, tenantID, semesterID, courseID)
}

// ListInstructorSections retrieves the sections an instructor teaches
func (s *CourseService) ListInstructorSections(ctx context.Context, tenantID, semesterID, instructorID int64) ([]*models.Section, error) {
	return s.courseRepo.ListInstructorSections(ctx, tenantID, semesterID, instructorID)
}
