package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
)

func TestCreateLoanRequestRequest_Validate(t *testing.T) {
	borrowerID := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		name    string
		req     CreateLoanRequestRequest
		wantErr bool
	}{
		{"valid", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: 15000, Currency: "EUR"}, false},
		{"lowercase currency", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: 1, Currency: "usd"}, false},
		{"missing borrower", CreateLoanRequestRequest{Amount: 1, Currency: "EUR"}, true},
		{"malformed borrower", CreateLoanRequestRequest{BorrowerID: "999", Amount: 1, Currency: "EUR"}, true},
		{"zero amount", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: 0, Currency: "EUR"}, true},
		{"negative amount", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: -5, Currency: "EUR"}, true},
		{"unknown currency", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: 1, Currency: "JPY"}, true},
		{"missing currency", CreateLoanRequestRequest{BorrowerID: borrowerID, Amount: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateLoanRequestRequest_ToInput(t *testing.T) {
	borrowerID := uuid.Must(uuid.NewV7())
	req := CreateLoanRequestRequest{BorrowerID: borrowerID.String(), Amount: 99.5, Currency: "gbp"}

	input, err := req.ToInput()

	require.NoError(t, err)
	assert.Equal(t, borrowerID, input.BorrowerID)
	assert.Equal(t, 99.5, input.Amount)
	assert.Equal(t, loanDomain.CurrencyGBP, input.Currency)
}

func TestUpdateStatusRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateStatusRequest{Status: "APPROVED"}).Validate())
	assert.NoError(t, (&UpdateStatusRequest{Status: "cancelled"}).Validate())
	assert.Error(t, (&UpdateStatusRequest{}).Validate())
	assert.Error(t, (&UpdateStatusRequest{Status: "CLOSED"}).Validate())
}

func TestListLoanRequestsQuery(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		q := ListLoanRequestsQuery{}
		require.NoError(t, q.Validate())

		filter, err := q.ToFilter()
		require.NoError(t, err)
		assert.Equal(t, loanDomain.ListFilter{}, filter)
	})

	t.Run("all filters", func(t *testing.T) {
		status := "pending"
		borrowerID := uuid.Must(uuid.NewV7())
		borrower := borrowerID.String()
		currency := "eur"

		q := ListLoanRequestsQuery{Status: &status, BorrowerID: &borrower, Currency: &currency}
		require.NoError(t, q.Validate())

		filter, err := q.ToFilter()
		require.NoError(t, err)
		require.NotNil(t, filter.Status)
		assert.Equal(t, loanDomain.StatusPending, *filter.Status)
		require.NotNil(t, filter.BorrowerID)
		assert.Equal(t, borrowerID, *filter.BorrowerID)
		require.NotNil(t, filter.Currency)
		assert.Equal(t, loanDomain.CurrencyEUR, *filter.Currency)
	})

	t.Run("invalid filters", func(t *testing.T) {
		status := "open"
		borrower := "999"
		currency := "JPY"

		assert.Error(t, (&ListLoanRequestsQuery{Status: &status}).Validate())
		assert.Error(t, (&ListLoanRequestsQuery{BorrowerID: &borrower}).Validate())
		assert.Error(t, (&ListLoanRequestsQuery{Currency: &currency}).Validate())
	})
}
