package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a staff record linked to a user account.
type Employee struct {
	ID            int64           `json:"id" db:"id"`
	TenantID      int64           `json:"tenantId" db:"tenant_id"`
	UserID        int64           `json:"userId" db:"user_id"`
	StaffNumber   string          `json:"staffNumber" db:"staff_number"`
	Position      string          `json:"position" db:"position"`
	HireDate      time.Time       `json:"hireDate" db:"hire_date"`
	MonthlySalary decimal.Decimal `json:"monthlySalary" db:"monthly_salary"`
	User          *User           `json:"user,omitempty"` // relation, no db tag
}

// LeaveType classifies leave and carries the yearly entitlement.
type LeaveType struct {
	ID               int64  `json:"id" db:"id"`
	TenantID         int64  `json:"tenantId" db:"tenant_id"`
	Code             string `json:"code" db:"code"` // ANNUAL, SICK, UNPAID
	Name             string `json:"name" db:"name"`
	EntitlementDays  int    `json:"entitlementDays" db:"entitlement_days"`
	Paid             bool   `json:"paid" db:"paid"`
}

// LeaveRequestStatus is the approval state.
type LeaveRequestStatus string

const (
	LeavePending   LeaveRequestStatus = "PENDING"
	LeaveApproved  LeaveRequestStatus = "APPROVED"
	LeaveRejected  LeaveRequestStatus = "REJECTED"
	LeaveCancelled LeaveRequestStatus = "CANCELLED"
)

// LeaveRequest is an employee's request for days off.
type LeaveRequest struct {
	ID          int64              `json:"id" db:"id"`
	TenantID    int64              `json:"tenantId" db:"tenant_id"`
	EmployeeID  int64              `json:"employeeId" db:"employee_id"`
	LeaveTypeID int64              `json:"leaveTypeId" db:"leave_type_id"`
	StartDate   time.Time          `json:"startDate" db:"start_date"`
	EndDate     time.Time          `json:"endDate" db:"end_date"`
	Days        int                `json:"days" db:"days"` // working days in the range
	Reason      *string            `json:"reason,omitempty" db:"reason"`
	Status      LeaveRequestStatus `json:"status" db:"status"`
	DecidedBy   *int64             `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt   *time.Time         `json:"decidedAt,omitempty" db:"decided_at"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
	LeaveType   *LeaveType         `json:"leaveType,omitempty"` // relation, no db tag
}

// LeaveBalance summarizes one employee's balance for one leave type and year.
type LeaveBalance struct {
	EmployeeID  int64 `json:"employeeId"`
	LeaveTypeID int64 `json:"leaveTypeId"`
	Year        int   `json:"year"`
	Entitlement int   `json:"entitlement"`
	CarriedOver int   `json:"carriedOver"`
	Used        int   `json:"used"`
	Remaining   int   `json:"remaining"`
}
