package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/logger"
)

// workingDaysPerMonth is the divisor for converting a monthly salary to a
// daily rate when deducting unpaid leave.
const workingDaysPerMonth = 22

// PayrollService generates and finalizes monthly payroll runs
type PayrollService struct {
	pool        *pgxpool.Pool
	payrollRepo *repositories.PayrollRepository
	hrRepo      *repositories.HRRepository
}

// NewPayrollService creates a new payroll service
func NewPayrollService(pool *pgxpool.Pool, payrollRepo *repositories.PayrollRepository, hrRepo *repositories.HRRepository) *PayrollService {
	return &PayrollService{
		pool:        pool,
		payrollRepo: payrollRepo,
		hrRepo:      hrRepo,
	}
}

// PayslipFor computes one employee's line: gross is the monthly salary,
// deductions are unpaid leave days at the daily rate, net is the remainder.
func PayslipFor(employee *models.Employee, unpaidLeaveDays int) *models.Payslip {
	gross := employee.MonthlySalary
	dailyRate := gross.DivRound(decimal.NewFromInt(workingDaysPerMonth), 2)
	deductions := dailyRate.Mul(decimal.NewFromInt(int64(unpaidLeaveDays)))
	if deductions.GreaterThan(gross) {
		deductions = gross
	}
	return &models.Payslip{
		TenantID:   employee.TenantID,
		EmployeeID: employee.ID,
		Gross:      gross,
		Deductions: deductions,
		Net:        gross.Sub(deductions),
	}
}

// CreateRun generates a DRAFT payroll run with a payslip per employee.
// One run per (tenant, year, month).
func (s *PayrollService) CreateRun(ctx context.Context, tenantID int64, req *dto.CreatePayrollRunRequest, createdBy int64) (*models.PayrollRun, error) {
	employees, err := s.hrRepo.ListEmployees(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	run := &models.PayrollRun{
		TenantID:  tenantID,
		Year:      req.Year,
		Month:     req.Month,
		Status:    models.PayrollDraft,
		CreatedBy: createdBy,
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.payrollRepo.CreateRun(ctx, tx, run); err != nil {
			return err
		}
		for _, employee := range employees {
			unpaidDays, err := s.hrRepo.UnpaidLeaveDays(ctx, tenantID, employee.ID, req.Year, req.Month)
			if err != nil {
				return err
			}
			slip := PayslipFor(employee, unpaidDays)
			slip.RunID = run.ID
			if err := s.payrollRepo.CreatePayslip(ctx, tx, slip); err != nil {
				return err
			}
			run.Payslips = append(run.Payslips, slip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("tenantId", tenantID).
		Int("year", req.Year).
		Int("month", req.Month).
		Int("payslips", len(run.Payslips)).
		Msg("Payroll run created")
	return run, nil
}

// GetRun retrieves a run with its payslips
func (s *PayrollService) GetRun(ctx context.Context, tenantID, id int64) (*models.PayrollRun, error) {
	return s.payrollRepo.GetRunByID(ctx, tenantID, id)
}

// ListRuns retrieves a tenant's payroll runs
func (s *PayrollService) ListRuns(ctx context.Context, tenantID int64) ([]*models.PayrollRun, error) {
	return s.payrollRepo.ListRuns(ctx, tenantID)
}

// FinalizeRun locks a DRAFT run
func (s *PayrollService) FinalizeRun(ctx context.Context, tenantID, id int64) (*models.PayrollRun, error) {
	if err := s.payrollRepo.FinalizeRun(ctx, tenantID, id, time.Now()); err != nil {
		return nil, err
	}
	return s.payrollRepo.GetRunByID(ctx, tenantID, id)
}
