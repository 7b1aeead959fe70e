package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeSchedule is the tuition amount for a (year, department) pair.
type FeeSchedule struct {
	ID             int64           `json:"id" db:"id"`
	TenantID       int64           `json:"tenantId" db:"tenant_id"`
	AcademicYearID int64           `json:"academicYearId" db:"academic_year_id"`
	DepartmentID   int64           `json:"departmentId" db:"department_id"`
	TuitionAmount  decimal.Decimal `json:"tuitionAmount" db:"tuition_amount"`
}

// InvoiceStatus is derived from the sum of non-voided payments.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceIssued        InvoiceStatus = "ISSUED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceOverdue       InvoiceStatus = "OVERDUE"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// Invoice is a billing record for a student in a semester.
type Invoice struct {
	ID         int64           `json:"id" db:"id"`
	TenantID   int64           `json:"tenantId" db:"tenant_id"`
	StudentID  int64           `json:"studentId" db:"student_id"`
	SemesterID int64           `json:"semesterId" db:"semester_id"`
	Number     string          `json:"number" db:"number"` // INV-<year>-<serial>
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	DueDate    time.Time       `json:"dueDate" db:"due_date"`
	Status     InvoiceStatus   `json:"status" db:"status"`
	IssuedAt   *time.Time      `json:"issuedAt,omitempty" db:"issued_at"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	Paid       decimal.Decimal `json:"paid"`    // computed, no db tag
	Student    *Student        `json:"student,omitempty"` // relation, no db tag
}

// Outstanding returns the unpaid remainder, never negative.
func (i *Invoice) Outstanding() decimal.Decimal {
	out := i.Amount.Sub(i.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// PaymentMethod is the settlement channel.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCard         PaymentMethod = "CARD"
)

// Payment settles part or all of an invoice. Voiding is modeled explicitly:
// a voided payment keeps its row but never counts toward settlement.
type Payment struct {
	ID            int64           `json:"id" db:"id"`
	TenantID      int64           `json:"tenantId" db:"tenant_id"`
	InvoiceID     int64           `json:"invoiceId" db:"invoice_id"`
	ReceiptNumber string          `json:"receiptNumber" db:"receipt_number"` // uuid
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        PaymentMethod   `json:"method" db:"method"`
	PaidAt        time.Time       `json:"paidAt" db:"paid_at"`
	RecordedBy    int64           `json:"recordedBy" db:"recorded_by"`
	VoidedAt      *time.Time      `json:"voidedAt,omitempty" db:"voided_at"`
	VoidReason    *string         `json:"voidReason,omitempty" db:"void_reason"`
}

// IsVoided reports whether the payment has been voided.
func (p *Payment) IsVoided() bool {
	return p.VoidedAt != nil
}

// CollectionRow is one department line of the semester collection report.
type CollectionRow struct {
	DepartmentID   int64           `json:"departmentId"`
	DepartmentName string          `json:"departmentName"`
	Invoiced       decimal.Decimal `json:"invoiced"`
	Collected      decimal.Decimal `json:"collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// CollectionReport aggregates billing for a semester.
type CollectionReport struct {
	SemesterID  int64           `json:"semesterId"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Rows        []CollectionRow `json:"rows"`
}

// PayrollRunStatus tracks the payroll lifecycle.
type PayrollRunStatus string

const (
	PayrollDraft     PayrollRunStatus = "DRAFT"
	PayrollFinalized PayrollRunStatus = "FINALIZED"
)

// PayrollRun is one month's payroll for a tenant. Unique per (tenant, year, month).
type PayrollRun struct {
	ID          int64            `json:"id" db:"id"`
	TenantID    int64            `json:"tenantId" db:"tenant_id"`
	Year        int              `json:"year" db:"year"`
	Month       int              `json:"month" db:"month"`
	Status      PayrollRunStatus `json:"status" db:"status"`
	CreatedBy   int64            `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	FinalizedAt *time.Time       `json:"finalizedAt,omitempty" db:"finalized_at"`
	Payslips    []*Payslip       `json:"payslips,omitempty"` // relation, no db tag
}

// Payslip is one employee's line in a payroll run.
type Payslip struct {
	ID         int64           `json:"id" db:"id"`
	TenantID   int64           `json:"tenantId" db:"tenant_id"`
	RunID      int64           `json:"runId" db:"run_id"`
	EmployeeID int64           `json:"employeeId" db:"employee_id"`
	Gross      decimal.Decimal `json:"gross" db:"gross"`
	Deductions decimal.Decimal `json:"deductions" db:"deductions"`
	Net        decimal.Decimal `json:"net" db:"net"`
}
