package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// PayrollRepository handles payroll runs and payslips
type PayrollRepository struct {
	db *pgxpool.Pool
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *pgxpool.Pool) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// CreateRun stores a payroll run. Unique per (tenant, year, month).
func (r *PayrollRepository) CreateRun(ctx context.Context, tx pgx.Tx, run *models.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (tenant_id, year, month, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		run.TenantID, run.Year, run.Month, run.Status, run.CreatedBy,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "payroll_runs_tenant_id_year_month_key") {
			return apperrors.ErrPayrollRunExists
		}
		return fmt.Errorf("error creating payroll run: %w", err)
	}

	return nil
}

// CreatePayslip stores one employee's line of a run
func (r *PayrollRepository) CreatePayslip(ctx context.Context, tx pgx.Tx, slip *models.Payslip) error {
	query := `
		INSERT INTO payslips (tenant_id, run_id, employee_id, gross, deductions, net)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		slip.TenantID, slip.RunID, slip.EmployeeID, slip.Gross, slip.Deductions, slip.Net,
	).Scan(&slip.ID)
	if err != nil {
		return fmt.Errorf("error creating payslip: %w", err)
	}

	return nil
}

// GetRunByID retrieves a payroll run with its payslips
func (r *PayrollRepository) GetRunByID(ctx context.Context, tenantID, id int64) (*models.PayrollRun, error) {
	query := `
		SELECT id, tenant_id, year, month, status, created_by, created_at, finalized_at
		FROM payroll_runs
		WHERE tenant_id = $1 AND id = $2
	`

	var run models.PayrollRun
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&run.ID, &run.TenantID, &run.Year, &run.Month, &run.Status,
		&run.CreatedBy, &run.CreatedAt, &run.FinalizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPayrollRunNotFound
		}
		return nil, fmt.Errorf("error retrieving payroll run: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, run_id, employee_id, gross, deductions, net
		FROM payslips
		WHERE tenant_id = $1 AND run_id = $2
		ORDER BY employee_id
	`, tenantID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slip models.Payslip
		if err := rows.Scan(&slip.ID, &slip.TenantID, &slip.RunID, &slip.EmployeeID, &slip.Gross, &slip.Deductions, &slip.Net); err != nil {
			return nil, err
		}
		run.Payslips = append(run.Payslips, &slip)
	}
	return &run, rows.Err()
}

// ListRuns retrieves the payroll runs of a tenant, newest first
func (r *PayrollRepository) ListRuns(ctx context.Context, tenantID int64) ([]*models.PayrollRun, error) {
	query := `
		SELECT id, tenant_id, year, month, status, created_by, created_at, finalized_at
		FROM payroll_runs
		WHERE tenant_id = $1
		ORDER BY year DESC, month DESC
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.PayrollRun
	for rows.Next() {
		var run models.PayrollRun
		err := rows.Scan(
			&run.ID, &run.TenantID, &run.Year, &run.Month, &run.Status,
			&run.CreatedBy, &run.CreatedAt, &run.FinalizedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FinalizeRun moves a DRAFT run to FINALIZED. Finalized runs are immutable.
func (r *PayrollRepository) FinalizeRun(ctx context.Context, tenantID, id int64, at time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE payroll_runs
		SET status = 'FINALIZED', finalized_at = $1
		WHERE tenant_id = $2 AND id = $3 AND status = 'DRAFT'
	`, at, tenantID, id)
	if err != nil {
		return fmt.Errorf("error finalizing payroll run: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPayrollRunFinalized
	}
	return nil
}
