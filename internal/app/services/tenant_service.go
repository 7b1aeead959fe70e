package services

import (
	"context"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/pkg/logger"
)

// TenantService manages campus registration
type TenantService struct {
	tenantRepo *repositories.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo *repositories.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// Create registers a new campus
func (s *TenantService) Create(ctx context.Context, req *dto.CreateTenantRequest) (*models.Tenant, error) {
	tenant := &models.Tenant{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	logger.Info().Str("code", tenant.Code).Int64("tenantId", tenant.ID).Msg("Tenant created")
	return tenant, nil
}

// Get retrieves a tenant by ID
func (s *TenantService) Get(ctx context.Context, id int64) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

// List retrieves all tenants
func (s *TenantService) List(ctx context.Context) ([]*models.Tenant, error) {
	return s.tenantRepo.GetAll(ctx)
}

// SetActive enables or disables a tenant. Disabled tenants reject logins.
func (s *TenantService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.tenantRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	logger.Info().Int64("tenantId", id).Bool("active", active).Msg("Tenant activation changed")
	return nil
}
