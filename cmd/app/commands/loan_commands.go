package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
	"github.com/allisson/loans/internal/loan/http/dto"
	loanUseCase "github.com/allisson/loans/internal/loan/usecase"
	customValidation "github.com/allisson/loans/internal/validation"
)

// RunCreateLoanRequest files a PENDING loan request for an existing borrower.
func RunCreateLoanRequest(
	ctx context.Context,
	loanRequestUseCase loanUseCase.LoanRequestUseCase,
	logger *slog.Logger,
	writer io.Writer,
	borrowerID string,
	amount float64,
	currency string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	req := dto.CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: amount, Currency: currency}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid loan request: %w", customValidation.WrapValidationError(err))
	}
	input, err := req.ToInput()
	if err != nil {
		return fmt.Errorf("invalid loan request: %w", err)
	}

	loanRequest, err := loanRequestUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create loan request: %w", err)
	}

	logger.Info("loan request created",
		slog.String("loan_request_id", loanRequest.ID.String()),
		slog.String("borrower_id", loanRequest.BorrowerID.String()),
	)

	return outputLoanRequest(writer, loanRequest, "Loan request created successfully!", format)
}

// RunListLoanRequests prints the loan requests matching every non-empty filter.
func RunListLoanRequests(
	ctx context.Context,
	loanRequestUseCase loanUseCase.LoanRequestUseCase,
	writer io.Writer,
	status, borrowerID, currency string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	query := dto.ListLoanRequestsQuery{
		Status:     optional(status),
		BorrowerID: optional(borrowerID),
		Currency:   optional(currency),
	}
	if err := query.Validate(); err != nil {
		return fmt.Errorf("invalid filter: %w", customValidation.WrapValidationError(err))
	}
	filter, err := query.ToFilter()
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	loanRequests, err := loanRequestUseCase.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list loan requests: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, dto.MapLoanRequestsToListResponse(loanRequests))
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tBORROWER ID\tAMOUNT\tCURRENCY\tSTATUS\tCREATED AT")
	for _, loanRequest := range loanRequests {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			loanRequest.ID,
			loanRequest.BorrowerID,
			formatAmount(loanRequest.Amount),
			loanRequest.Currency,
			loanRequest.Status,
			loanRequest.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.Flush()
}

// RunUpdateLoanStatus moves a loan request to status. Illegal transitions are reported with
// both the current and the requested status.
func RunUpdateLoanStatus(
	ctx context.Context,
	loanRequestUseCase loanUseCase.LoanRequestUseCase,
	logger *slog.Logger,
	writer io.Writer,
	loanRequestIDStr string,
	status string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	loanRequestID, err := uuid.Parse(loanRequestIDStr)
	if err != nil {
		return fmt.Errorf("invalid loan request ID format: %w", err)
	}

	target, err := loanDomain.ParseStatus(status)
	if err != nil {
		return err
	}

	loanRequest, err := loanRequestUseCase.UpdateStatus(ctx, loanRequestID, target)
	if err != nil {
		return fmt.Errorf("failed to update loan request status: %w", err)
	}

	logger.Info("loan request status updated",
		slog.String("loan_request_id", loanRequest.ID.String()),
		slog.String("status", string(loanRequest.Status)),
	)

	return outputLoanRequest(writer, loanRequest, "Loan request status updated successfully!", format)
}

func outputLoanRequest(writer io.Writer, loanRequest *loanDomain.LoanRequest, headline, format string) error {
	if format == "json" {
		return writeJSON(writer, dto.MapLoanRequestToResponse(loanRequest))
	}

	_, _ = fmt.Fprintln(writer, headline)
	_, _ = fmt.Fprintf(writer, "ID: %s\n", loanRequest.ID)
	_, _ = fmt.Fprintf(writer, "Borrower ID: %s\n", loanRequest.BorrowerID)
	_, _ = fmt.Fprintf(writer, "Amount: %s %s\n", formatAmount(loanRequest.Amount), loanRequest.Currency)
	_, _ = fmt.Fprintf(writer, "Status: %s\n", loanRequest.Status)
	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
