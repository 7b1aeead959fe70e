package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/helpers"
	"github.com/campora/campora/internal/pkg/logger"
)

// HRService manages employees and leave
type HRService struct {
	pool     *pgxpool.Pool
	hrRepo   *repositories.HRRepository
	userRepo *repositories.UserRepository
}

// NewHRService creates a new HR service
func NewHRService(pool *pgxpool.Pool, hrRepo *repositories.HRRepository, userRepo *repositories.UserRepository) *HRService {
	return &HRService{pool: pool, hrRepo: hrRepo, userRepo: userRepo}
}

// CreateEmployee registers a staff record for an existing user
func (s *HRService) CreateEmployee(ctx context.Context, tenantID int64, req *dto.CreateEmployeeRequest) (*models.Employee, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, req.UserID)
	if err != nil {
		return nil, err
	}

	hireDate, err := helpers.ParseDate(req.HireDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid hire date, expected YYYY-MM-DD")
	}
	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil || salary.IsNegative() {
		return nil, apperrors.NewBadRequestError("invalid monthly salary")
	}

	employee := &models.Employee{
		TenantID:      tenantID,
		UserID:        user.ID,
		StaffNumber:   req.StaffNumber,
		Position:      req.Position,
		HireDate:      hireDate,
		MonthlySalary: salary,
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return s.hrRepo.CreateEmployee(ctx, tx, employee)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("employeeId", employee.ID).Str("staffNumber", employee.StaffNumber).Msg("Employee created")
	employee.User = user
	return employee, nil
}

// GetEmployee retrieves an employee with the linked user
func (s *HRService) GetEmployee(ctx context.Context, tenantID, id int64) (*models.Employee, error) {
	return s.hrRepo.GetEmployeeByID(ctx, tenantID, id)
}

// GetEmployeeByUser retrieves the employee record behind a user account
func (s *HRService) GetEmployeeByUser(ctx context.Context, tenantID, userID int64) (*models.Employee, error) {
	return s.hrRepo.GetEmployeeByUserID(ctx, tenantID, userID)
}

// ListEmployees retrieves all employees of a tenant
func (s *HRService) ListEmployees(ctx context.Context, tenantID int64) ([]*models.Employee, error) {
	return s.hrRepo.ListEmployees(ctx, tenantID)
}

// CreateLeaveType defines a leave type
func (s *HRService) CreateLeaveType(ctx context.Context, tenantID int64, req *dto.CreateLeaveTypeRequest) (*models.LeaveType, error) {
	lt := &models.LeaveType{
		TenantID:        tenantID,
		Code:            req.Code,
		Name:            req.Name,
		EntitlementDays: req.EntitlementDays,
		Paid:            req.Paid,
	}
	if err := s.hrRepo.CreateLeaveType(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

// ListLeaveTypes retrieves the tenant's leave types
func (s *HRService) ListLeaveTypes(ctx context.Context, tenantID int64) ([]*models.LeaveType, error) {
	return s.hrRepo.ListLeaveTypes(ctx, tenantID)
}

// RequestLeave files a leave request for the employee behind the calling user.
// Paid types are checked against the remaining balance of the start year.
func (s *HRService) RequestLeave(ctx context.Context, tenantID, userID int64, req *dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	employee, err := s.hrRepo.GetEmployeeByUserID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	leaveType, err := s.hrRepo.GetLeaveTypeByID(ctx, tenantID, req.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	start, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid start date, expected YYYY-MM-DD")
	}
	end, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid end date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.NewBadRequestError("end date must not be before start date")
	}
	days := helpers.WorkingDays(start, end)
	if days == 0 {
		return nil, apperrors.NewBadRequestError("requested range contains no working days")
	}

	overlap, err := s.hrRepo.HasApprovedOverlap(ctx, tenantID, employee.ID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperrors.ErrLeaveOverlap
	}

	if leaveType.Paid {
		balance, err := s.Balance(ctx, tenantID, employee.ID, leaveType.ID, start.Year())
		if err != nil {
			return nil, err
		}
		if days > balance.Remaining {
			return nil, apperrors.ErrLeaveBalanceExceeded
		}
	}

	request := &models.LeaveRequest{
		TenantID:    tenantID,
		EmployeeID:  employee.ID,
		LeaveTypeID: leaveType.ID,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      req.Reason,
		Status:      models.LeavePending,
	}
	if err := s.hrRepo.CreateLeaveRequest(ctx, request); err != nil {
		return nil, err
	}

	request.LeaveType = leaveType
	return request, nil
}

// GetLeaveRequest retrieves a leave request
func (s *HRService) GetLeaveRequest(ctx context.Context, tenantID, id int64) (*models.LeaveRequest, error) {
	return s.hrRepo.GetLeaveRequestByID(ctx, tenantID, id)
}

// ListLeaveRequests retrieves leave requests, optionally filtered by employee
// and status
func (s *HRService) ListLeaveRequests(ctx context.Context, tenantID, employeeID int64, status string) ([]*models.LeaveRequest, error) {
	return s.hrRepo.ListLeaveRequests(ctx, tenantID, employeeID, status)
}

// DecideLeave approves or rejects a pending request. The filing-time balance
// check does not count other pending requests, so approval of a paid type
// re-checks the balance before debiting it.
func (s *HRService) DecideLeave(ctx context.Context, tenantID, requestID int64, approve bool, decidedBy int64) (*models.LeaveRequest, error) {
	request, err := s.hrRepo.GetLeaveRequestByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	status := models.LeaveRejected
	if approve {
		status = models.LeaveApproved

		leaveType, err := s.hrRepo.GetLeaveTypeByID(ctx, tenantID, request.LeaveTypeID)
		if err != nil {
			return nil, err
		}
		if leaveType.Paid {
			balance, err := s.Balance(ctx, tenantID, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year())
			if err != nil {
				return nil, err
			}
			if request.Days > balance.Remaining {
				return nil, apperrors.ErrLeaveBalanceExceeded
			}
		}
	}
	if err := s.hrRepo.DecideLeaveRequest(ctx, tenantID, requestID, status, decidedBy); err != nil {
		return nil, err
	}
	logger.Info().Int64("requestId", requestID).Str("status", string(status)).Msg("Leave request decided")
	return s.hrRepo.GetLeaveRequestByID(ctx, tenantID, requestID)
}

// CancelLeave cancels the caller's own pending or approved request, crediting
// any approved days back to the balance
func (s *HRService) CancelLeave(ctx context.Context, tenantID, userID, requestID int64) (*models.LeaveRequest, error) {
	employee, err := s.hrRepo.GetEmployeeByUserID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	request, err := s.hrRepo.GetLeaveRequestByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != employee.ID {
		return nil, apperrors.NewForbiddenError("leave request belongs to another employee")
	}
	if err := s.hrRepo.CancelLeaveRequest(ctx, tenantID, requestID); err != nil {
		return nil, err
	}
	return s.hrRepo.GetLeaveRequestByID(ctx, tenantID, requestID)
}

// Balance computes an employee's leave balance for one type and year. Unused
// paid days from the previous year carry over once, without compounding.
func (s *HRService) Balance(ctx context.Context, tenantID, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error) {
	leaveType, err := s.hrRepo.GetLeaveTypeByID(ctx, tenantID, leaveTypeID)
	if err != nil {
		return nil, err
	}

	used, err := s.hrRepo.UsedDays(ctx, tenantID, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}

	usedPrev := 0
	if leaveType.Paid {
		usedPrev, err = s.hrRepo.UsedDays(ctx, tenantID, employeeID, leaveTypeID, year-1)
		if err != nil {
			return nil, err
		}
	}
	carried, remaining := balanceFor(leaveType, used, usedPrev)

	return &models.LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Entitlement: leaveType.EntitlementDays,
		CarriedOver: carried,
		Used:        used,
		Remaining:   remaining,
	}, nil
}

// balanceFor computes the carryover and remaining days from the entitlement
// and the approved days of the balance year and the one before. Unused paid
// days carry over once, without compounding.
func balanceFor(leaveType *models.LeaveType, used, usedPrev int) (carried, remaining int) {
	if leaveType.Paid {
		if carried = leaveType.EntitlementDays - usedPrev; carried < 0 {
			carried = 0
		}
	}
	return carried, leaveType.EntitlementDays + carried - used
}
