// Package dto provides data transfer objects for loan request HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
	customValidation "github.com/allisson/loans/internal/validation"
)

var (
	currencyRule = customValidation.OneOfFold(
		string(loanDomain.CurrencyEUR),
		string(loanDomain.CurrencyUSD),
		string(loanDomain.CurrencyGBP),
	)
	statusRule = customValidation.OneOfFold(
		string(loanDomain.StatusPending),
		string(loanDomain.StatusApproved),
		string(loanDomain.StatusRejected),
		string(loanDomain.StatusCancelled),
	)
)

// CreateLoanRequestRequest contains the fields accepted when filing a loan request.
type CreateLoanRequestRequest struct {
	BorrowerID string  `json:"borrower_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// Validate checks if the create loan request is valid.
func (r *CreateLoanRequestRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BorrowerID, validation.Required, customValidation.UUID),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Currency, validation.Required, currencyRule),
	)
}

// ToInput converts a validated request into use case input.
func (r *CreateLoanRequestRequest) ToInput() (*loanDomain.CreateLoanRequestInput, error) {
	borrowerID, err := uuid.Parse(r.BorrowerID)
	if err != nil {
		return nil, err
	}
	currency, err := loanDomain.ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}
	return &loanDomain.CreateLoanRequestInput{
		BorrowerID: borrowerID,
		Amount:     r.Amount,
		Currency:   currency,
	}, nil
}

// UpdateStatusRequest contains the target status of a transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the update status request is valid.
func (r *UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, statusRule),
	)
}

// ListLoanRequestsQuery holds the optional query string filters for listing loan requests.
type ListLoanRequestsQuery struct {
	Status     *string
	BorrowerID *string
	Currency   *string
}

// Validate checks the supplied filters.
func (q *ListLoanRequestsQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Status, statusRule),
		validation.Field(&q.BorrowerID, customValidation.UUID),
		validation.Field(&q.Currency, currencyRule),
	)
}

// ToFilter converts a validated query into a domain filter.
func (q *ListLoanRequestsQuery) ToFilter() (loanDomain.ListFilter, error) {
	var filter loanDomain.ListFilter

	if q.Status != nil {
		status, err := loanDomain.ParseStatus(*q.Status)
		if err != nil {
			return loanDomain.ListFilter{}, err
		}
		filter.Status = &status
	}
	if q.BorrowerID != nil {
		borrowerID, err := uuid.Parse(*q.BorrowerID)
		if err != nil {
			return loanDomain.ListFilter{}, err
		}
		filter.BorrowerID = &borrowerID
	}
	if q.Currency != nil {
		currency, err := loanDomain.ParseCurrency(*q.Currency)
		if err != nil {
			return loanDomain.ListFilter{}, err
		}
		filter.Currency = &currency
	}

	return filter, nil
}
