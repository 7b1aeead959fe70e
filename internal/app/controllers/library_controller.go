package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// LibraryController handles the book catalogue and loans
type LibraryController struct {
	libraryService *services.LibraryService
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(libraryService *services.LibraryService) *LibraryController {
	return &LibraryController{libraryService: libraryService}
}

// AddBook adds a catalogue entry
// @Summary Add a book
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book"
// @Success 201 {object} dto.APIResponse{data=models.Book} "Book added"
// @Failure 409 {object} dto.ErrorResponse "ISBN already exists"
// @Router /library/books [post]
func (c *LibraryController) AddBook(ctx *gin.Context) {
	var req dto.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	book, err := c.libraryService.AddBook(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, book)
}

// GetBook retrieves a catalogue entry
// @Summary Get book by ID
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} dto.APIResponse{data=models.Book} "Book"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /library/books/{id} [get]
func (c *LibraryController) GetBook(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	book, err := c.libraryService.GetBook(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, book)
}

// SearchBooks retrieves books matching a title or author fragment
// @Summary Search books
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title or author fragment"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Books"
// @Router /library/books [get]
func (c *LibraryController) SearchBooks(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	books, pagination, err := c.libraryService.SearchBooks(ctx,
		middleware.CurrentTenantID(ctx), ctx.Query("q"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, books, pagination)
}

// Borrow loans a book to a member
// @Summary Borrow a book
// @Description Loans a copy to a member; rejected when no copies remain or the member holds an overdue loan
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BorrowRequest true "Loan"
// @Success 201 {object} dto.APIResponse{data=models.Loan} "Loan created"
// @Failure 404 {object} dto.ErrorResponse "Book or member not found"
// @Failure 409 {object} dto.ErrorResponse "No copies or member has an overdue loan"
// @Router /library/loans [post]
func (c *LibraryController) Borrow(ctx *gin.Context) {
	var req dto.BorrowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	loan, err := c.libraryService.Borrow(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, loan)
}

// Return closes a loan
// @Summary Return a book
// @Description Closes the loan, restores the copy and computes any overdue fine
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} dto.APIResponse{data=models.Loan} "Loan closed"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already returned"
// @Router /library/loans/{id}/return [post]
func (c *LibraryController) Return(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	loan, err := c.libraryService.Return(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, loan)
}

// ListMemberLoans retrieves a member's loans
// @Summary List member loans
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member user ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Loan} "Loans"
// @Router /library/members/{memberId}/loans [get]
func (c *LibraryController) ListMemberLoans(ctx *gin.Context) {
	memberID, ok := parseIDParam(ctx, "memberId")
	if !ok {
		return
	}

	loans, err := c.libraryService.ListMemberLoans(ctx, middleware.CurrentTenantID(ctx), memberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, loans)
}

// MyLoans retrieves the caller's loans
// @Summary List own loans
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Loan} "Loans"
// @Router /library/loans/mine [get]
func (c *LibraryController) MyLoans(ctx *gin.Context) {
	loans, err := c.libraryService.ListMemberLoans(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, loans)
}
