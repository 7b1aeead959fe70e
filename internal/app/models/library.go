package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a library catalogue entry.
type Book struct {
	ID              int64  `json:"id" db:"id"`
	TenantID        int64  `json:"tenantId" db:"tenant_id"`
	ISBN            string `json:"isbn" db:"isbn"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

// Loan is a borrowing record.
type Loan struct {
	ID         int64            `json:"id" db:"id"`
	TenantID   int64            `json:"tenantId" db:"tenant_id"`
	BookID     int64            `json:"bookId" db:"book_id"`
	MemberID   int64            `json:"memberId" db:"member_id"` // user id
	LoanedAt   time.Time        `json:"loanedAt" db:"loaned_at"`
	DueAt      time.Time        `json:"dueAt" db:"due_at"`
	ReturnedAt *time.Time       `json:"returnedAt,omitempty" db:"returned_at"`
	Fine       *decimal.Decimal `json:"fine,omitempty" db:"fine"`
	Book       *Book            `json:"book,omitempty"` // relation, no db tag
}

// IsOverdue reports whether an open loan is past its due date at the given time.
func (l *Loan) IsOverdue(at time.Time) bool {
	return l.ReturnedAt == nil && at.After(l.DueAt)
}
