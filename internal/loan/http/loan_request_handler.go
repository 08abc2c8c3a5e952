// Package http provides HTTP handlers for loan request operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/loans/internal/httputil"
	loanDomain "github.com/allisson/loans/internal/loan/domain"
	"github.com/allisson/loans/internal/loan/http/dto"
	loanUseCase "github.com/allisson/loans/internal/loan/usecase"
	customValidation "github.com/allisson/loans/internal/validation"
)

// LoanRequestHandler handles HTTP requests for the loan request lifecycle.
type LoanRequestHandler struct {
	loanRequestUseCase loanUseCase.LoanRequestUseCase
	logger             *slog.Logger
}

// NewLoanRequestHandler creates a new loan request handler with required dependencies.
func NewLoanRequestHandler(
	loanRequestUseCase loanUseCase.LoanRequestUseCase,
	logger *slog.Logger,
) *LoanRequestHandler {
	return &LoanRequestHandler{
		loanRequestUseCase: loanRequestUseCase,
		logger:             logger,
	}
}

// CreateHandler files a new loan request.
// POST /v1/loan-requests - Returns 201 Created with the PENDING loan request.
func (h *LoanRequestHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateLoanRequestRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	loanRequest, err := h.loanRequestUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapLoanRequestToResponse(loanRequest))
}

// GetHandler retrieves a loan request by ID.
// GET /v1/loan-requests/:id
func (h *LoanRequestHandler) GetHandler(c *gin.Context) {
	loanRequestID, ok := h.parseID(c)
	if !ok {
		return
	}

	loanRequest, err := h.loanRequestUseCase.Get(c.Request.Context(), loanRequestID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoanRequestToResponse(loanRequest))
}

// ListHandler lists loan requests matching the optional status, borrower_id and currency filters.
// GET /v1/loan-requests
func (h *LoanRequestHandler) ListHandler(c *gin.Context) {
	query := dto.ListLoanRequestsQuery{
		Status:     optionalQuery(c, "status"),
		BorrowerID: optionalQuery(c, "borrower_id"),
		Currency:   optionalQuery(c, "currency"),
	}

	if err := query.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	loanRequests, err := h.loanRequestUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoanRequestsToListResponse(loanRequests))
}

// UpdateStatusHandler moves a loan request along the status state machine.
// PATCH /v1/loan-requests/:id/status - Returns 200 OK, or 400 for an illegal transition.
func (h *LoanRequestHandler) UpdateStatusHandler(c *gin.Context) {
	loanRequestID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	target, err := loanDomain.ParseStatus(req.Status)
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	loanRequest, err := h.loanRequestUseCase.UpdateStatus(c.Request.Context(), loanRequestID, target)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoanRequestToResponse(loanRequest))
}

func (h *LoanRequestHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	loanRequestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid loan request ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return loanRequestID, true
}

func optionalQuery(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok {
		return &value
	}
	return nil
}
