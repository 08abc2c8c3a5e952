package dto

import (
	"time"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
)

// LoanRequestResponse represents a loan request in API responses.
type LoanRequestResponse struct {
	ID         string    `json:"id"`
	BorrowerID string    `json:"borrower_id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapLoanRequestToResponse converts a domain loan request to an API response.
func MapLoanRequestToResponse(loanRequest *loanDomain.LoanRequest) LoanRequestResponse {
	return LoanRequestResponse{
		ID:         loanRequest.ID.String(),
		BorrowerID: loanRequest.BorrowerID.String(),
		Amount:     loanRequest.Amount,
		Currency:   string(loanRequest.Currency),
		Status:     string(loanRequest.Status),
		CreatedAt:  loanRequest.CreatedAt,
	}
}

// ListLoanRequestsResponse represents a list of loan requests in API responses.
type ListLoanRequestsResponse struct {
	Data []LoanRequestResponse `json:"data"`
}

// MapLoanRequestsToListResponse converts domain loan requests to a list API response.
func MapLoanRequestsToListResponse(loanRequests []*loanDomain.LoanRequest) ListLoanRequestsResponse {
	data := make([]LoanRequestResponse, 0, len(loanRequests))
	for _, loanRequest := range loanRequests {
		data = append(data, MapLoanRequestToResponse(loanRequest))
	}
	return ListLoanRequestsResponse{Data: data}
}
