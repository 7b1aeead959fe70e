package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// TenantRepository handles database operations for tenants
type TenantRepository struct {
	db *pgxpool.Pool
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (name, code, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, tenant.Name, tenant.Code, tenant.IsActive).
		Scan(&tenant.ID, &tenant.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "tenants_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating tenant: %w", err)
	}

	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	query := `
		SELECT id, name, code, is_active, created_at
		FROM tenants
		WHERE id = $1
	`

	var tenant models.Tenant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Code,
		&tenant.IsActive,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("error retrieving tenant: %w", err)
	}

	return &tenant, nil
}

// GetByCode retrieves a tenant by its unique code
func (r *TenantRepository) GetByCode(ctx context.Context, code string) (*models.Tenant, error) {
	query := `
		SELECT id, name, code, is_active, created_at
		FROM tenants
		WHERE code = $1
	`

	var tenant models.Tenant
	err := r.db.QueryRow(ctx, query, code).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Code,
		&tenant.IsActive,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("error retrieving tenant by code: %w", err)
	}

	return &tenant, nil
}

// GetAll retrieves all tenants
func (r *TenantRepository) GetAll(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT id, name, code, is_active, created_at
		FROM tenants
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		var tenant models.Tenant
		if err := rows.Scan(
			&tenant.ID,
			&tenant.Name,
			&tenant.Code,
			&tenant.IsActive,
			&tenant.CreatedAt,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, &tenant)
	}

	return tenants, rows.Err()
}

// SetActive enables or disables a tenant
func (r *TenantRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE tenants SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating tenant: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTenantNotFound
	}
	return nil
}
