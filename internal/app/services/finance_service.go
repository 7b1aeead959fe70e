package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/cache"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/helpers"
	"github.com/campora/campora/internal/pkg/logger"
)

// FinanceService manages fee schedules, invoices and payments
type FinanceService struct {
	pool          *pgxpool.Pool
	financeRepo   *repositories.FinanceRepository
	studentRepo   *repositories.StudentRepository
	academicRepo  *repositories.AcademicRepository
	userRepo      *repositories.UserRepository
	notifications *NotificationService
	cache         cache.Store
}

// NewFinanceService creates a new finance service
func NewFinanceService(
	pool *pgxpool.Pool,
	financeRepo *repositories.FinanceRepository,
	studentRepo *repositories.StudentRepository,
	academicRepo *repositories.AcademicRepository,
	userRepo *repositories.UserRepository,
	notifications *NotificationService,
	store cache.Store,
) *FinanceService {
	return &FinanceService{
		pool:          pool,
		financeRepo:   financeRepo,
		studentRepo:   studentRepo,
		academicRepo:  academicRepo,
		userRepo:      userRepo,
		notifications: notifications,
		cache:         store,
	}
}

// deriveInvoiceStatus computes the status from the settled total and due date.
// CANCELLED and DRAFT are terminal/manual and never derived.
func deriveInvoiceStatus(amount, paid decimal.Decimal, dueDate, now time.Time) models.InvoiceStatus {
	if paid.GreaterThanOrEqual(amount) {
		return models.InvoicePaid
	}
	if now.After(dueDate) {
		return models.InvoiceOverdue
	}
	if paid.IsPositive() {
		return models.InvoicePartiallyPaid
	}
	return models.InvoiceIssued
}

// CreateFeeSchedule sets tuition for a (year, department) pair
func (s *FinanceService) CreateFeeSchedule(ctx context.Context, tenantID int64, req *dto.CreateFeeScheduleRequest) (*models.FeeSchedule, error) {
	amount, err := decimal.NewFromString(req.TuitionAmount)
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.NewBadRequestError("invalid tuition amount")
	}
	if _, err := s.academicRepo.GetAcademicYearByID(ctx, tenantID, req.AcademicYearID); err != nil {
		return nil, err
	}
	if _, err := s.academicRepo.GetDepartmentByID(ctx, tenantID, req.DepartmentID); err != nil {
		return nil, err
	}

	fee := &models.FeeSchedule{
		TenantID:       tenantID,
		AcademicYearID: req.AcademicYearID,
		DepartmentID:   req.DepartmentID,
		TuitionAmount:  amount,
	}
	if err := s.financeRepo.CreateFeeSchedule(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// IssueInvoice creates an ISSUED invoice numbered INV-<year>-<serial>. The
// amount defaults to the fee schedule of the student's department.
func (s *FinanceService) IssueInvoice(ctx context.Context, tenantID int64, req *dto.CreateInvoiceRequest) (*models.Invoice, error) {
	student, err := s.studentRepo.GetByID(ctx, tenantID, req.StudentID)
	if err != nil {
		return nil, err
	}
	semester, err := s.academicRepo.GetSemesterByID(ctx, tenantID, req.SemesterID)
	if err != nil {
		return nil, err
	}

	dueDate, err := helpers.ParseDate(req.DueDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid due date")
	}

	var amount decimal.Decimal
	if req.Amount != "" {
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil || !amount.IsPositive() {
			return nil, apperrors.NewBadRequestError("invalid invoice amount")
		}
	} else {
		fee, err := s.financeRepo.GetFeeSchedule(ctx, tenantID, semester.AcademicYearID, student.DepartmentID)
		if err != nil {
			return nil, err
		}
		amount = fee.TuitionAmount
	}

	now := time.Now()
	invoice := &models.Invoice{
		TenantID:   tenantID,
		StudentID:  req.StudentID,
		SemesterID: req.SemesterID,
		Amount:     amount,
		DueDate:    dueDate,
		Status:     models.InvoiceIssued,
		IssuedAt:   &now,
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		serial, err := s.financeRepo.NextInvoiceSerial(ctx, tx, tenantID, now.Year())
		if err != nil {
			return err
		}
		invoice.Number = fmt.Sprintf("INV-%d-%06d", now.Year(), serial)
		return s.financeRepo.CreateInvoice(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.forgetReports(ctx, tenantID, req.SemesterID)
	if student.User != nil {
		subject := "Invoice " + invoice.Number
		body := fmt.Sprintf("You have been invoiced %s, due %s.", amount.StringFixed(2), dueDate.Format("2006-01-02"))
		if err := s.notifications.Dispatch(ctx, student.User, models.CategoryBilling, subject, body); err != nil {
			logger.Warn().Err(err).Str("invoice", invoice.Number).Msg("Failed to send invoice notification")
		}
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice with its paid total
func (s *FinanceService) GetInvoice(ctx context.Context, tenantID, id int64) (*models.Invoice, error) {
	return s.financeRepo.GetInvoiceByID(ctx, tenantID, id)
}

// ListInvoices retrieves invoices with filters
func (s *FinanceService) ListInvoices(ctx context.Context, tenantID, studentID, semesterID int64, status string, page, size int) ([]*models.Invoice, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	invoices, total, err := s.financeRepo.ListInvoices(ctx, tenantID, studentID, semesterID, status, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return invoices, helpers.NewPaginationInfo(total, page, size), nil
}

// RecordPayment settles part of an invoice. The invoice row is locked for the
// duration so the overpayment check and the status derivation are race-free.
func (s *FinanceService) RecordPayment(ctx context.Context, tenantID, invoiceID int64, req *dto.RecordPaymentRequest, recordedBy int64) (*models.Payment, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.NewBadRequestError("invalid payment amount")
	}

	payment := &models.Payment{
		TenantID:      tenantID,
		InvoiceID:     invoiceID,
		ReceiptNumber: uuid.New().String(),
		Amount:        amount,
		Method:        models.PaymentMethod(req.Method),
		PaidAt:        time.Now(),
		RecordedBy:    recordedBy,
	}

	var invoice *models.Invoice
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		invoice, err = s.financeRepo.GetInvoiceForUpdate(ctx, tx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		switch invoice.Status {
		case models.InvoiceDraft, models.InvoiceCancelled, models.InvoicePaid:
			return apperrors.ErrInvoiceNotPayable
		}
		if amount.GreaterThan(invoice.Outstanding()) {
			return apperrors.ErrOverpayment
		}

		if err := s.financeRepo.CreatePayment(ctx, tx, payment); err != nil {
			return err
		}

		newPaid := invoice.Paid.Add(amount)
		status := deriveInvoiceStatus(invoice.Amount, newPaid, invoice.DueDate, time.Now())
		if status != invoice.Status {
			if err := s.financeRepo.UpdateInvoiceStatus(ctx, tx, tenantID, invoiceID, status); err != nil {
				return err
			}
			invoice.Status = status
		}
		invoice.Paid = newPaid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.forgetReports(ctx, tenantID, invoice.SemesterID)
	if invoice.Status == models.InvoicePaid {
		s.notifySettled(ctx, tenantID, invoice)
	}
	return payment, nil
}

// VoidPayment voids a payment and re-derives the invoice status. The row
// stays for the audit trail but no longer counts toward settlement.
func (s *FinanceService) VoidPayment(ctx context.Context, tenantID, paymentID int64, req *dto.VoidPaymentRequest) (*models.Payment, error) {
	payment, err := s.financeRepo.GetPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.IsVoided() {
		return nil, apperrors.ErrPaymentAlreadyVoided
	}

	var invoice *models.Invoice
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		invoice, err = s.financeRepo.GetInvoiceForUpdate(ctx, tx, tenantID, payment.InvoiceID)
		if err != nil {
			return err
		}

		if err := s.financeRepo.VoidPayment(ctx, tx, tenantID, paymentID, req.Reason); err != nil {
			return err
		}

		newPaid := invoice.Paid.Sub(payment.Amount)
		if newPaid.IsNegative() {
			newPaid = decimal.Zero
		}
		if invoice.Status != models.InvoiceDraft && invoice.Status != models.InvoiceCancelled {
			status := deriveInvoiceStatus(invoice.Amount, newPaid, invoice.DueDate, time.Now())
			if status != invoice.Status {
				return s.financeRepo.UpdateInvoiceStatus(ctx, tx, tenantID, payment.InvoiceID, status)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.forgetReports(ctx, tenantID, invoice.SemesterID)
	return s.financeRepo.GetPaymentByID(ctx, tenantID, paymentID)
}

// ListPayments retrieves the payments against an invoice, voided included
func (s *FinanceService) ListPayments(ctx context.Context, tenantID, invoiceID int64) ([]*models.Payment, error) {
	if _, err := s.financeRepo.GetInvoiceByID(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	return s.financeRepo.ListPayments(ctx, tenantID, invoiceID)
}

// CollectionReport aggregates billing for a semester, cached briefly
func (s *FinanceService) CollectionReport(ctx context.Context, tenantID, semesterID int64) (*models.CollectionReport, error) {
	var report models.CollectionReport
	key := cache.Key(tenantID, "collection-report", fmt.Sprint(semesterID))
	err := s.cache.Remember(ctx, key, cache.ClassReport, &report, func() (interface{}, error) {
		return s.financeRepo.CollectionReport(ctx, tenantID, semesterID)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// SweepOverdue marks past-due invoices OVERDUE. Called nightly by the
// scheduler; runs across tenants.
func (s *FinanceService) SweepOverdue(ctx context.Context) (int, error) {
	ids, err := s.financeRepo.MarkOverdueInvoices(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		logger.Info().Int("count", len(ids)).Msg("Invoices marked overdue")
	}
	return len(ids), nil
}

func (s *FinanceService) notifySettled(ctx context.Context, tenantID int64, invoice *models.Invoice) {
	student, err := s.studentRepo.GetByID(ctx, tenantID, invoice.StudentID)
	if err != nil || student.User == nil {
		return
	}
	subject := "Invoice " + invoice.Number + " settled"
	body := fmt.Sprintf("Your invoice %s has been paid in full.", invoice.Number)
	if err := s.notifications.Dispatch(ctx, student.User, models.CategoryBilling, subject, body); err != nil {
		logger.Warn().Err(err).Str("invoice", invoice.Number).Msg("Failed to send settlement notification")
	}
}

func (s *FinanceService) forgetReports(ctx context.Context, tenantID, semesterID int64) {
	_ = s.cache.Forget(ctx, cache.Key(tenantID, "collection-report", fmt.Sprint(semesterID)))
}
