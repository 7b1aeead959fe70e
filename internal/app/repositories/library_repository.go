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

// LibraryRepository handles books and loans
type LibraryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *pgxpool.Pool) *LibraryRepository {
	return &LibraryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBook stores a catalogue entry
func (r *LibraryRepository) CreateBook(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (tenant_id, isbn, title, author, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		book.TenantID, book.ISBN, book.Title, book.Author, book.TotalCopies, book.AvailableCopies,
	).Scan(&book.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "books_tenant_id_isbn_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating book: %w", err)
	}

	return nil
}

// GetBookByID retrieves a book by ID within a tenant
func (r *LibraryRepository) GetBookByID(ctx context.Context, tenantID, id int64) (*models.Book, error) {
	query := `
		SELECT id, tenant_id, isbn, title, author, total_copies, available_copies
		FROM books
		WHERE tenant_id = $1 AND id = $2
	`

	var book models.Book
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&book.ID, &book.TenantID, &book.ISBN, &book.Title, &book.Author,
		&book.TotalCopies, &book.AvailableCopies,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving book: %w", err)
	}
	return &book, nil
}

// SearchBooks retrieves books matching a title or author fragment
func (r *LibraryRepository) SearchBooks(ctx context.Context, tenantID int64, search string, offset uint64, limit int) ([]*models.Book, int64, error) {
	where := squirrel.And{squirrel.Eq{"tenant_id": tenantID}}
	if search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"author": pattern},
		})
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("books").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build book count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting books: %w", err)
	}

	sql, args, err = r.sb.Select("id", "tenant_id", "isbn", "title", "author", "total_copies", "available_copies").
		From("books").
		Where(where).
		OrderBy("title").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build book list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var book models.Book
		err := rows.Scan(
			&book.ID, &book.TenantID, &book.ISBN, &book.Title, &book.Author,
			&book.TotalCopies, &book.AvailableCopies,
		)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, &book)
	}
	return books, total, rows.Err()
}

// DecrementCopies takes one available copy. Fails when none are left; the
// guard in the WHERE clause makes the check atomic.
func (r *LibraryRepository) DecrementCopies(ctx context.Context, tx pgx.Tx, tenantID, bookID int64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE books
		SET available_copies = available_copies - 1
		WHERE tenant_id = $1 AND id = $2 AND available_copies > 0
	`, tenantID, bookID)
	if err != nil {
		return fmt.Errorf("error decrementing copies: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoCopiesLeft
	}
	return nil
}

// IncrementCopies returns one copy to the shelf
func (r *LibraryRepository) IncrementCopies(ctx context.Context, tx pgx.Tx, tenantID, bookID int64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE books
		SET available_copies = available_copies + 1
		WHERE tenant_id = $1 AND id = $2 AND available_copies < total_copies
	`, tenantID, bookID)
	if err != nil {
		return fmt.Errorf("error incrementing copies: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}

// CreateLoan stores a borrowing record
func (r *LibraryRepository) CreateLoan(ctx context.Context, tx pgx.Tx, loan *models.Loan) error {
	query := `
		INSERT INTO loans (tenant_id, book_id, member_id, loaned_at, due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		loan.TenantID, loan.BookID, loan.MemberID, loan.LoanedAt, loan.DueAt,
	).Scan(&loan.ID)
	if err != nil {
		return fmt.Errorf("error creating loan: %w", err)
	}

	return nil
}

// GetLoanByID retrieves a loan with its book
func (r *LibraryRepository) GetLoanByID(ctx context.Context, tenantID, id int64) (*models.Loan, error) {
	query := `
		SELECT l.id, l.tenant_id, l.book_id, l.member_id, l.loaned_at, l.due_at, l.returned_at, l.fine,
		       b.id, b.tenant_id, b.isbn, b.title, b.author, b.total_copies, b.available_copies
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.tenant_id = $1 AND l.id = $2
	`

	var loan models.Loan
	var book models.Book
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&loan.ID, &loan.TenantID, &loan.BookID, &loan.MemberID,
		&loan.LoanedAt, &loan.DueAt, &loan.ReturnedAt, &loan.Fine,
		&book.ID, &book.TenantID, &book.ISBN, &book.Title, &book.Author,
		&book.TotalCopies, &book.AvailableCopies,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("error retrieving loan: %w", err)
	}
	loan.Book = &book
	return &loan, nil
}

// ListMemberLoans retrieves a member's loans, open ones first
func (r *LibraryRepository) ListMemberLoans(ctx context.Context, tenantID, memberID int64) ([]*models.Loan, error) {
	query := `
		SELECT l.id, l.tenant_id, l.book_id, l.member_id, l.loaned_at, l.due_at, l.returned_at, l.fine,
		       b.id, b.tenant_id, b.isbn, b.title, b.author, b.total_copies, b.available_copies
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.tenant_id = $1 AND l.member_id = $2
		ORDER BY l.returned_at NULLS FIRST, l.due_at
	`

	rows, err := r.db.Query(ctx, query, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		var loan models.Loan
		var book models.Book
		err := rows.Scan(
			&loan.ID, &loan.TenantID, &loan.BookID, &loan.MemberID,
			&loan.LoanedAt, &loan.DueAt, &loan.ReturnedAt, &loan.Fine,
			&book.ID, &book.TenantID, &book.ISBN, &book.Title, &book.Author,
			&book.TotalCopies, &book.AvailableCopies,
		)
		if err != nil {
			return nil, err
		}
		loan.Book = &book
		loans = append(loans, &loan)
	}
	return loans, rows.Err()
}

// HasOverdueLoan reports whether a member holds an open loan past its due date
func (r *LibraryRepository) HasOverdueLoan(ctx context.Context, tenantID, memberID int64, asOf time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE tenant_id = $1 AND member_id = $2 AND returned_at IS NULL AND due_at < $3
		)
	`, tenantID, memberID, asOf).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking overdue loans: %w", err)
	}
	return exists, nil
}

// ListOverdueLoans retrieves all open loans past their due date, across tenants,
// for the overdue-notice job.
func (r *LibraryRepository) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	query := `
		SELECT l.id, l.tenant_id, l.book_id, l.member_id, l.loaned_at, l.due_at, l.returned_at, l.fine,
		       b.id, b.tenant_id, b.isbn, b.title, b.author, b.total_copies, b.available_copies
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.returned_at IS NULL AND l.due_at < $1
		ORDER BY l.tenant_id, l.due_at
	`

	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		var loan models.Loan
		var book models.Book
		err := rows.Scan(
			&loan.ID, &loan.TenantID, &loan.BookID, &loan.MemberID,
			&loan.LoanedAt, &loan.DueAt, &loan.ReturnedAt, &loan.Fine,
			&book.ID, &book.TenantID, &book.ISBN, &book.Title, &book.Author,
			&book.TotalCopies, &book.AvailableCopies,
		)
		if err != nil {
			return nil, err
		}
		loan.Book = &book
		loans = append(loans, &loan)
	}
	return loans, rows.Err()
}

// CloseLoan records the return, with the computed fine if any
func (r *LibraryRepository) CloseLoan(ctx context.Context, tx pgx.Tx, tenantID, id int64, returnedAt time.Time, fine *decimal.Decimal) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE loans
		SET returned_at = $1, fine = $2
		WHERE tenant_id = $3 AND id = $4 AND returned_at IS NULL
	`, returnedAt, fine, tenantID, id)
	if err != nil {
		return fmt.Errorf("error closing loan: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLoanReturned
	}
	return nil
}
