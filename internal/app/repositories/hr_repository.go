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

// HRRepository handles employees, leave types and leave requests
type HRRepository struct {
	db *pgxpool.Pool
}

// NewHRRepository creates a new HR repository
func NewHRRepository(db *pgxpool.Pool) *HRRepository {
	return &HRRepository{db: db}
}

// CreateEmployee stores a staff record. The user row must already exist.
func (r *HRRepository) CreateEmployee(ctx context.Context, tx pgx.Tx, employee *models.Employee) error {
	query := `
		INSERT INTO employees (tenant_id, user_id, staff_number, position, hire_date, monthly_salary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		employee.TenantID, employee.UserID, employee.StaffNumber,
		employee.Position, employee.HireDate, employee.MonthlySalary,
	).Scan(&employee.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "employees_tenant_id_staff_number_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating employee: %w", err)
	}

	return nil
}

const employeeSelect = `
	SELECT e.id, e.tenant_id, e.user_id, e.staff_number, e.position, e.hire_date, e.monthly_salary,
	       u.id, u.first_name, u.last_name, u.email
	FROM employees e
	JOIN users u ON u.id = e.user_id
`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var employee models.Employee
	var user models.User
	err := row.Scan(
		&employee.ID, &employee.TenantID, &employee.UserID, &employee.StaffNumber,
		&employee.Position, &employee.HireDate, &employee.MonthlySalary,
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
	)
	if err != nil {
		return nil, err
	}
	employee.User = &user
	return &employee, nil
}

// GetEmployeeByID retrieves an employee with the linked user
func (r *HRRepository) GetEmployeeByID(ctx context.Context, tenantID, id int64) (*models.Employee, error) {
	query := employeeSelect + ` WHERE e.tenant_id = $1 AND e.id = $2`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return employee, nil
}

// GetEmployeeByUserID retrieves the employee record linked to a user account
func (r *HRRepository) GetEmployeeByUserID(ctx context.Context, tenantID, userID int64) (*models.Employee, error) {
	query := employeeSelect + ` WHERE e.tenant_id = $1 AND e.user_id = $2`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return employee, nil
}

// ListEmployees retrieves all employees of a tenant
func (r *HRRepository) ListEmployees(ctx context.Context, tenantID int64) ([]*models.Employee, error) {
	query := employeeSelect + ` WHERE e.tenant_id = $1 ORDER BY e.staff_number`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// CreateLeaveType stores a leave classification
func (r *HRRepository) CreateLeaveType(ctx context.Context, lt *models.LeaveType) error {
	query := `
		INSERT INTO leave_types (tenant_id, code, name, entitlement_days, paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		lt.TenantID, lt.Code, lt.Name, lt.EntitlementDays, lt.Paid,
	).Scan(&lt.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "leave_types_tenant_id_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating leave type: %w", err)
	}

	return nil
}

// GetLeaveTypeByID retrieves a leave type
func (r *HRRepository) GetLeaveTypeByID(ctx context.Context, tenantID, id int64) (*models.LeaveType, error) {
	query := `SELECT id, tenant_id, code, name, entitlement_days, paid FROM leave_types WHERE tenant_id = $1 AND id = $2`

	var lt models.LeaveType
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&lt.ID, &lt.TenantID, &lt.Code, &lt.Name, &lt.EntitlementDays, &lt.Paid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveTypeNotFound
		}
		return nil, fmt.Errorf("error retrieving leave type: %w", err)
	}
	return &lt, nil
}

// ListLeaveTypes retrieves all leave types of a tenant
func (r *HRRepository) ListLeaveTypes(ctx context.Context, tenantID int64) ([]*models.LeaveType, error) {
	query := `SELECT id, tenant_id, code, name, entitlement_days, paid FROM leave_types WHERE tenant_id = $1 ORDER BY code`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.LeaveType
	for rows.Next() {
		var lt models.LeaveType
		if err := rows.Scan(&lt.ID, &lt.TenantID, &lt.Code, &lt.Name, &lt.EntitlementDays, &lt.Paid); err != nil {
			return nil, err
		}
		types = append(types, &lt)
	}
	return types, rows.Err()
}

// CreateLeaveRequest stores a pending leave request
func (r *HRRepository) CreateLeaveRequest(ctx context.Context, req *models.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (tenant_id, employee_id, leave_type_id, start_date, end_date, days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		req.TenantID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.Days, req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating leave request: %w", err)
	}

	return nil
}

// GetLeaveRequestByID retrieves a leave request with its type
func (r *HRRepository) GetLeaveRequestByID(ctx context.Context, tenantID, id int64) (*models.LeaveRequest, error) {
	query := `
		SELECT lr.id, lr.tenant_id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
		       lr.days, lr.reason, lr.status, lr.decided_by, lr.decided_at, lr.created_at,
		       lt.id, lt.tenant_id, lt.code, lt.name, lt.entitlement_days, lt.paid
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.tenant_id = $1 AND lr.id = $2
	`

	var req models.LeaveRequest
	var lt models.LeaveType
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&req.ID, &req.TenantID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.Days, &req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt,
		&lt.ID, &lt.TenantID, &lt.Code, &lt.Name, &lt.EntitlementDays, &lt.Paid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving leave request: %w", err)
	}
	req.LeaveType = &lt
	return &req, nil
}

// ListLeaveRequests retrieves an employee's leave requests, newest first.
// Pass employeeID 0 to list the whole tenant, e.g. for the HR review queue.
func (r *HRRepository) ListLeaveRequests(ctx context.Context, tenantID, employeeID int64, status string) ([]*models.LeaveRequest, error) {
	query := `
		SELECT lr.id, lr.tenant_id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
		       lr.days, lr.reason, lr.status, lr.decided_by, lr.decided_at, lr.created_at,
		       lt.id, lt.tenant_id, lt.code, lt.name, lt.entitlement_days, lt.paid
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.tenant_id = $1
		  AND ($2 = 0 OR lr.employee_id = $2)
		  AND ($3 = '' OR lr.status = $3)
		ORDER BY lr.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, tenantID, employeeID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.LeaveRequest
	for rows.Next() {
		var req models.LeaveRequest
		var lt models.LeaveType
		err := rows.Scan(
			&req.ID, &req.TenantID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
			&req.Days, &req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt,
			&lt.ID, &lt.TenantID, &lt.Code, &lt.Name, &lt.EntitlementDays, &lt.Paid,
		)
		if err != nil {
			return nil, err
		}
		req.LeaveType = &lt
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// UsedDays sums the approved working days of an employee for one leave type
// within a calendar year.
func (r *HRRepository) UsedDays(ctx context.Context, tenantID, employeeID, leaveTypeID int64, year int) (int, error) {
	var used int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
		  AND status = 'APPROVED' AND EXTRACT(YEAR FROM start_date) = $4
	`, tenantID, employeeID, leaveTypeID, year).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("error summing used leave days: %w", err)
	}
	return used, nil
}

// UnpaidLeaveDays sums the approved days of unpaid leave types starting in
// the given month. Used for payroll deductions.
func (r *HRRepository) UnpaidLeaveDays(ctx context.Context, tenantID, employeeID int64, year, month int) (int, error) {
	var days int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(lr.days), 0)
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.tenant_id = $1 AND lr.employee_id = $2
		  AND lr.status = 'APPROVED' AND lt.paid = false
		  AND EXTRACT(YEAR FROM lr.start_date) = $3 AND EXTRACT(MONTH FROM lr.start_date) = $4
	`, tenantID, employeeID, year, month).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("error summing unpaid leave days: %w", err)
	}
	return days, nil
}

// HasApprovedOverlap reports whether the employee already has approved or
// pending leave intersecting the given date range.
func (r *HRRepository) HasApprovedOverlap(ctx context.Context, tenantID, employeeID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE tenant_id = $1 AND employee_id = $2
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_date <= $4 AND $3 <= end_date
		)
	`, tenantID, employeeID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking leave overlap: %w", err)
	}
	return exists, nil
}

// DecideLeaveRequest moves a PENDING request to APPROVED or REJECTED
func (r *HRRepository) DecideLeaveRequest(ctx context.Context, tenantID, id int64, status models.LeaveRequestStatus, decidedBy int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decided_at = now()
		WHERE tenant_id = $3 AND id = $4 AND status = 'PENDING'
	`, status, decidedBy, tenantID, id)
	if err != nil {
		return fmt.Errorf("error deciding leave request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeaveNotPending
	}
	return nil
}

// CancelLeaveRequest cancels a PENDING or APPROVED request. Cancelling an
// approved request frees its days for future balance checks.
func (r *HRRepository) CancelLeaveRequest(ctx context.Context, tenantID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE leave_requests
		SET status = 'CANCELLED'
		WHERE tenant_id = $1 AND id = $2 AND status IN ('PENDING', 'APPROVED')
	`, tenantID, id)
	if err != nil {
		return fmt.Errorf("error cancelling leave request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeaveNotPending
	}
	return nil
}
