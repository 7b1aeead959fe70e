package services

import (
	"context"
	"fmt"
	"time"

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

// loanPeriodDays is the default borrowing window.
const loanPeriodDays = 14

// LibraryService manages the book catalogue and loans
type LibraryService struct {
	pool          *pgxpool.Pool
	libraryRepo   *repositories.LibraryRepository
	userRepo      *repositories.UserRepository
	notifications *NotificationService
	dailyFine     decimal.Decimal
}

// NewLibraryService creates a new library service
func NewLibraryService(
	pool *pgxpool.Pool,
	libraryRepo *repositories.LibraryRepository,
	userRepo *repositories.UserRepository,
	notifications *NotificationService,
	dailyFine decimal.Decimal,
) *LibraryService {
	return &LibraryService{
		pool:          pool,
		libraryRepo:   libraryRepo,
		userRepo:      userRepo,
		notifications: notifications,
		dailyFine:     dailyFine,
	}
}

// OverdueFine computes the fine for a loan returned at the given time. Whole
// days overdue at the daily rate; nil when returned on time.
func OverdueFine(dueAt, returnedAt time.Time, dailyRate decimal.Decimal) *decimal.Decimal {
	if !returnedAt.After(dueAt) {
		return nil
	}
	daysLate := int64(returnedAt.Sub(dueAt).Hours() / 24)
	if returnedAt.Sub(dueAt)%(24*time.Hour) > 0 {
		daysLate++
	}
	fine := dailyRate.Mul(decimal.NewFromInt(daysLate))
	return &fine
}

// AddBook adds a catalogue entry with all copies available
func (s *LibraryService) AddBook(ctx context.Context, tenantID int64, req *dto.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		TenantID:        tenantID,
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	}
	if err := s.libraryRepo.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook retrieves a catalogue entry
func (s *LibraryService) GetBook(ctx context.Context, tenantID, id int64) (*models.Book, error) {
	return s.libraryRepo.GetBookByID(ctx, tenantID, id)
}

// SearchBooks retrieves books matching a title or author fragment
func (s *LibraryService) SearchBooks(ctx context.Context, tenantID int64, search string, page, size int) ([]*models.Book, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	books, total, err := s.libraryRepo.SearchBooks(ctx, tenantID, search, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return books, helpers.NewPaginationInfo(total, page, size), nil
}

// Borrow loans a book to a member. Rejected when no copies are available or
// the member already holds an overdue loan.
func (s *LibraryService) Borrow(ctx context.Context, tenantID int64, req *dto.BorrowRequest) (*models.Loan, error) {
	book, err := s.libraryRepo.GetBookByID(ctx, tenantID, req.BookID)
	if err != nil {
		return nil, err
	}
	member, err := s.userRepo.GetByID(ctx, tenantID, req.MemberID)
	if err != nil {
		return nil, err
	}

	overdue, err := s.libraryRepo.HasOverdueLoan(ctx, tenantID, member.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if overdue {
		return nil, apperrors.ErrMemberHasOverdue
	}

	now := time.Now()
	loan := &models.Loan{
		TenantID: tenantID,
		BookID:   book.ID,
		MemberID: member.ID,
		LoanedAt: now,
		DueAt:    now.AddDate(0, 0, loanPeriodDays),
	}
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.libraryRepo.DecrementCopies(ctx, tx, tenantID, book.ID); err != nil {
			return err
		}
		return s.libraryRepo.CreateLoan(ctx, tx, loan)
	})
	if err != nil {
		return nil, err
	}

	loan.Book = book
	return loan, nil
}

// Return closes a loan, computing the overdue fine if any
func (s *LibraryService) Return(ctx context.Context, tenantID, loanID int64) (*models.Loan, error) {
	loan, err := s.libraryRepo.GetLoanByID(ctx, tenantID, loanID)
	if err != nil {
		return nil, err
	}
	if loan.ReturnedAt != nil {
		return nil, apperrors.ErrLoanReturned
	}

	now := time.Now()
	fine := OverdueFine(loan.DueAt, now, s.dailyFine)
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.libraryRepo.CloseLoan(ctx, tx, tenantID, loanID, now, fine); err != nil {
			return err
		}
		return s.libraryRepo.IncrementCopies(ctx, tx, tenantID, loan.BookID)
	})
	if err != nil {
		return nil, err
	}

	loan.ReturnedAt = &now
	loan.Fine = fine
	return loan, nil
}

// ListMemberLoans retrieves a member's loans
func (s *LibraryService) ListMemberLoans(ctx context.Context, tenantID, memberID int64) ([]*models.Loan, error) {
	return s.libraryRepo.ListMemberLoans(ctx, tenantID, memberID)
}

// NotifyOverdue sends an overdue notice for every open past-due loan. Called
// daily by the scheduler; runs across tenants.
func (s *LibraryService) NotifyOverdue(ctx context.Context) (int, error) {
	loans, err := s.libraryRepo.ListOverdueLoans(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, loan := range loans {
		member, err := s.userRepo.GetByID(ctx, loan.TenantID, loan.MemberID)
		if err != nil {
			logger.Warn().Err(err).Int64("loanId", loan.ID).Msg("Skipping overdue notice")
			continue
		}
		subject := "Overdue book"
		body := fmt.Sprintf("%q was due on %s. Please return it to avoid further fines.",
			loan.Book.Title, loan.DueAt.Format("2006-01-02"))
		if err := s.notifications.Dispatch(ctx, member, models.CategoryLibrary, subject, body); err != nil {
			logger.Warn().Err(err).Int64("loanId", loan.ID).Msg("Failed to send overdue notice")
			continue
		}
		notified++
	}
	return notified, nil
}
