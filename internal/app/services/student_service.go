package services

import (
	"context"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/pkg/helpers"
)

// StudentService exposes student records
type StudentService struct {
	studentRepo *repositories.StudentRepository
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo *repositories.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// Get retrieves a student
func (s *StudentService) Get(ctx context.Context, tenantID, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, tenantID, id)
}

// GetByUser retrieves the student record linked to a user account
func (s *StudentService) GetByUser(ctx context.Context, tenantID, userID int64) (*models.Student, error) {
	return s.studentRepo.GetByUserID(ctx, tenantID, userID)
}

// List retrieves students with filters
func (s *StudentService) List(ctx context.Context, tenantID int64, query *dto.ListStudentsQuery, page, size int) ([]*models.Student, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.studentRepo.List(ctx, tenantID, query.DepartmentID, query.Standing, query.StudentNumber, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return students, helpers.NewPaginationInfo(total, page, size), nil
}

// UpdateStanding changes a student's academic standing
func (s *StudentService) UpdateStanding(ctx context.Context, tenantID, id int64, standing models.StudentStanding) error {
	return s.studentRepo.UpdateStanding(ctx, tenantID, id, standing)
}
