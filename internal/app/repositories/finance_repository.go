package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// FinanceRepository handles fee schedules, invoices and payments
type FinanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFinanceRepository creates a new finance repository
func NewFinanceRepository(db *pgxpool.Pool) *FinanceRepository {
	return &FinanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateFeeSchedule stores the tuition amount for a (year, department) pair
func (r *FinanceRepository) CreateFeeSchedule(ctx context.Context, fee *models.FeeSchedule) error {
	query := `
		INSERT INTO fee_schedules (tenant_id, academic_year_id, department_id, tuition_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		fee.TenantID, fee.AcademicYearID, fee.DepartmentID, fee.TuitionAmount,
	).Scan(&fee.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "fee_schedules_tenant_id_academic_year_id_department_id_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating fee schedule: %w", err)
	}

	return nil
}

// GetFeeSchedule retrieves the tuition amount for a (year, department) pair
func (r *FinanceRepository) GetFeeSchedule(ctx context.Context, tenantID, academicYearID, departmentID int64) (*models.FeeSchedule, error) {
	query := `
		SELECT id, tenant_id, academic_year_id, department_id, tuition_amount
		FROM fee_schedules
		WHERE tenant_id = $1 AND academic_year_id = $2 AND department_id = $3
	`

	var fee models.FeeSchedule
	err := r.db.QueryRow(ctx, query, tenantID, academicYearID, departmentID).Scan(
		&fee.ID, &fee.TenantID, &fee.AcademicYearID, &fee.DepartmentID, &fee.TuitionAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeScheduleNotFound
		}
		return nil, fmt.Errorf("error retrieving fee schedule: %w", err)
	}
	return &fee, nil
}

// NextInvoiceSerial returns the next per-tenant serial for the given year,
// locking the tenant row so concurrent issuance cannot collide.
func (r *FinanceRepository) NextInvoiceSerial(ctx context.Context, tx pgx.Tx, tenantID int64, year int) (int, error) {
	if _, err := tx.Exec(ctx, `SELECT id FROM tenants WHERE id = $1 FOR UPDATE`, tenantID); err != nil {
		return 0, fmt.Errorf("error locking tenant for invoice serial: %w", err)
	}

	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND EXTRACT(YEAR FROM created_at) = $2`,
		tenantID, year,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting invoices for serial: %w", err)
	}
	return count + 1, nil
}

// CreateInvoice stores a new invoice
func (r *FinanceRepository) CreateInvoice(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (tenant_id, student_id, semester_id, number, amount, due_date, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		invoice.TenantID, invoice.StudentID, invoice.SemesterID, invoice.Number,
		invoice.Amount, invoice.DueDate, invoice.Status, invoice.IssuedAt,
	).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "invoices_tenant_id_number_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating invoice: %w", err)
	}

	return nil
}

const invoiceColumns = `id, tenant_id, student_id, semester_id, number, amount, due_date, status, issued_at, created_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(
		&inv.ID, &inv.TenantID, &inv.StudentID, &inv.SemesterID, &inv.Number,
		&inv.Amount, &inv.DueDate, &inv.Status, &inv.IssuedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoiceByID retrieves an invoice with its paid total
func (r *FinanceRepository) GetInvoiceByID(ctx context.Context, tenantID, id int64) (*models.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE tenant_id = $1 AND id = $2`, invoiceColumns)

	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("error retrieving invoice: %w", err)
	}

	paid, err := r.SumPaid(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	invoice.Paid = paid
	return invoice, nil
}

// GetInvoiceForUpdate retrieves an invoice inside a transaction with a row
// lock, so payment recording serializes per invoice.
func (r *FinanceRepository) GetInvoiceForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id int64) (*models.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, invoiceColumns)

	invoice, err := scanInvoice(tx.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("error retrieving invoice: %w", err)
	}

	var paid decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE tenant_id = $1 AND invoice_id = $2 AND voided_at IS NULL`,
		tenantID, id,
	).Scan(&paid)
	if err != nil {
		return nil, fmt.Errorf("error summing payments: %w", err)
	}
	invoice.Paid = paid
	return invoice, nil
}

// SumPaid returns the total of non-voided payments against an invoice
func (r *FinanceRepository) SumPaid(ctx context.Context, tenantID, invoiceID int64) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE tenant_id = $1 AND invoice_id = $2 AND voided_at IS NULL`,
		tenantID, invoiceID,
	).Scan(&paid)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing payments: %w", err)
	}
	return paid, nil
}

// ListInvoices retrieves invoices with optional student, semester and status filters
func (r *FinanceRepository) ListInvoices(ctx context.Context, tenantID, studentID, semesterID int64, status string, offset uint64, limit int) ([]*models.Invoice, int64, error) {
	where := squirrel.And{squirrel.Eq{"tenant_id": tenantID}}
	if studentID > 0 {
		where = append(where, squirrel.Eq{"student_id": studentID})
	}
	if semesterID > 0 {
		where = append(where, squirrel.Eq{"semester_id": semesterID})
	}
	if status != "" {
		where = append(where, squirrel.Eq{"status": status})
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("invoices").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build invoice count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting invoices: %w", err)
	}

	sql, args, err = r.sb.Select(invoiceColumns).From("invoices").
		Where(where).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build invoice list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, invoice := range invoices {
		paid, err := r.SumPaid(ctx, tenantID, invoice.ID)
		if err != nil {
			return nil, 0, err
		}
		invoice.Paid = paid
	}

	return invoices, total, nil
}

// UpdateInvoiceStatus sets the invoice status
func (r *FinanceRepository) UpdateInvoiceStatus(ctx context.Context, tx pgx.Tx, tenantID, id int64, status models.InvoiceStatus) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE invoices SET status = $1 WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("error updating invoice status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvoiceNotFound
	}
	return nil
}

// MarkOverdueInvoices flips ISSUED and PARTIALLY_PAID invoices past their due
// date to OVERDUE. Returns the ids that changed so notices can follow.
func (r *FinanceRepository) MarkOverdueInvoices(ctx context.Context, asOf time.Time) ([]int64, error) {
	query := `
		UPDATE invoices
		SET status = 'OVERDUE'
		WHERE status IN ('ISSUED', 'PARTIALLY_PAID') AND due_date < $1
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error marking overdue invoices: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreatePayment stores a payment inside the invoice transaction
func (r *FinanceRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (tenant_id, invoice_id, receipt_number, amount, method, paid_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		payment.TenantID, payment.InvoiceID, payment.ReceiptNumber,
		payment.Amount, payment.Method, payment.PaidAt, payment.RecordedBy,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}

	return nil
}

// GetPaymentByID retrieves a payment by ID within a tenant
func (r *FinanceRepository) GetPaymentByID(ctx context.Context, tenantID, id int64) (*models.Payment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, receipt_number, amount, method, paid_at, recorded_by, voided_at, void_reason
		FROM payments
		WHERE tenant_id = $1 AND id = $2
	`

	var p models.Payment
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&p.ID, &p.TenantID, &p.InvoiceID, &p.ReceiptNumber, &p.Amount,
		&p.Method, &p.PaidAt, &p.RecordedBy, &p.VoidedAt, &p.VoidReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}
	return &p, nil
}

// ListPayments retrieves the payments against an invoice, voided included
func (r *FinanceRepository) ListPayments(ctx context.Context, tenantID, invoiceID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, receipt_number, amount, method, paid_at, recorded_by, voided_at, void_reason
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY paid_at
	`

	rows, err := r.db.Query(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&p.ID, &p.TenantID, &p.InvoiceID, &p.ReceiptNumber, &p.Amount,
			&p.Method, &p.PaidAt, &p.RecordedBy, &p.VoidedAt, &p.VoidReason,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// VoidPayment marks a payment voided inside the invoice transaction
func (r *FinanceRepository) VoidPayment(ctx context.Context, tx pgx.Tx, tenantID, id int64, reason string) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE payments
		SET voided_at = now(), void_reason = $1
		WHERE tenant_id = $2 AND id = $3 AND voided_at IS NULL
	`, reason, tenantID, id)
	if err != nil {
		return fmt.Errorf("error voiding payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentAlreadyVoided
	}
	return nil
}

// CollectionReport aggregates invoiced and collected amounts per department
// for one semester. CANCELLED invoices are excluded.
func (r *FinanceRepository) CollectionReport(ctx context.Context, tenantID, semesterID int64) (*models.CollectionReport, error) {
	query := `
		SELECT d.id, d.name,
		       COALESCE(SUM(i.amount), 0),
		       COALESCE(SUM(p.paid), 0)
		FROM invoices i
		JOIN students st ON st.id = i.student_id
		JOIN departments d ON d.id = st.department_id
		LEFT JOIN LATERAL (
			SELECT SUM(amount) AS paid
			FROM payments
			WHERE invoice_id = i.id AND voided_at IS NULL
		) p ON true
		WHERE i.tenant_id = $1 AND i.semester_id = $2 AND i.status <> 'CANCELLED'
		GROUP BY d.id, d.name
		ORDER BY d.name
	`

	rows, err := r.db.Query(ctx, query, tenantID, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &models.CollectionReport{SemesterID: semesterID}
	for rows.Next() {
		var row models.CollectionRow
		if err := rows.Scan(&row.DepartmentID, &row.DepartmentName, &row.Invoiced, &row.Collected); err != nil {
			return nil, err
		}
		row.Outstanding = row.Invoiced.Sub(row.Collected)
		report.Rows = append(report.Rows, row)
		report.Invoiced = report.Invoiced.Add(row.Invoiced)
		report.Collected = report.Collected.Add(row.Collected)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	report.Outstanding = report.Invoiced.Sub(report.Collected)
	return report, nil
}
