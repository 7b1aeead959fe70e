package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// FinanceController handles fee schedules, invoices and payments
type FinanceController struct {
	financeService *services.FinanceService
}

// NewFinanceController creates a new FinanceController
func NewFinanceController(financeService *services.FinanceService) *FinanceController {
	return &FinanceController{financeService: financeService}
}

// CreateFeeSchedule sets tuition for a (year, department) pair
// @Summary Create a fee schedule
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeeScheduleRequest true "Fee schedule"
// @Success 201 {object} dto.APIResponse{data=models.FeeSchedule} "Fee schedule created"
// @Failure 404 {object} dto.ErrorResponse "Academic year or department not found"
// @Failure 409 {object} dto.ErrorResponse "Fee schedule already exists"
// @Router /fee-schedules [post]
func (c *FinanceController) CreateFeeSchedule(ctx *gin.Context) {
	var req dto.CreateFeeScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	schedule, err := c.financeService.CreateFeeSchedule(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, schedule)
}

// IssueInvoice issues a tuition invoice
// @Summary Issue an invoice
// @Description Issues an invoice; the amount defaults to the student's fee schedule when omitted
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.APIResponse{data=models.Invoice} "Invoice issued"
// @Failure 404 {object} dto.ErrorResponse "Student, semester or fee schedule not found"
// @Router /invoices [post]
func (c *FinanceController) IssueInvoice(ctx *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	invoice, err := c.financeService.IssueInvoice(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, invoice)
}

// GetInvoice retrieves an invoice with its paid amount
// @Summary Get invoice by ID
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=models.Invoice} "Invoice"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Router /invoices/{id} [get]
func (c *FinanceController) GetInvoice(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	invoice, err := c.financeService.GetInvoice(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, invoice)
}

// ListInvoices retrieves invoices with optional filters
// @Summary List invoices
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param semesterId query int false "Filter by semester"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Invoices"
// @Router /invoices [get]
func (c *FinanceController) ListInvoices(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	invoices, pagination, err := c.financeService.ListInvoices(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "studentId"), queryID(ctx, "semesterId"),
		ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, invoices, pagination)
}

// RecordPayment settles part of an invoice
// @Summary Record a payment
// @Description Records a payment against an invoice; overpayment is rejected
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Param request body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.APIResponse{data=models.Payment} "Payment recorded"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice not payable or overpayment"
// @Router /invoices/{id}/payments [post]
func (c *FinanceController) RecordPayment(ctx *gin.Context) {
	invoiceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	payment, err := c.financeService.RecordPayment(ctx,
		middleware.CurrentTenantID(ctx), invoiceID, &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, payment)
}

// ListPayments retrieves an invoice's payments
// @Summary List invoice payments
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Payment} "Payments"
// @Router /invoices/{id}/payments [get]
func (c *FinanceController) ListPayments(ctx *gin.Context) {
	invoiceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	payments, err := c.financeService.ListPayments(ctx, middleware.CurrentTenantID(ctx), invoiceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, payments)
}

// VoidPayment voids a payment and re-derives the invoice status
// @Summary Void a payment
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body dto.VoidPaymentRequest true "Void reason"
// @Success 200 {object} dto.APIResponse{data=models.Payment} "Payment voided"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Payment already voided"
// @Router /payments/{id}/void [post]
func (c *FinanceController) VoidPayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.VoidPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	payment, err := c.financeService.VoidPayment(ctx, middleware.CurrentTenantID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, payment)
}

// CollectionReport summarizes billing and collections per department
// @Summary Get collection report
// @Description Invoiced, collected and outstanding totals grouped by department for one semester
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param semesterId query int true "Semester ID"
// @Success 200 {object} dto.APIResponse{data=models.CollectionReport} "Report"
// @Router /finance/collection-report [get]
func (c *FinanceController) CollectionReport(ctx *gin.Context) {
	report, err := c.financeService.CollectionReport(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "semesterId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, report)
}
