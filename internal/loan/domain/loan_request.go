// Package domain defines loan requests and the status state machine that governs them.
//
// A loan request is filed by an existing identity (the borrower) and starts PENDING.
// From there it can only move along three edges:
//
//	PENDING  -> APPROVED
//	PENDING  -> REJECTED
//	APPROVED -> CANCELLED
//
// REJECTED and CANCELLED are terminal. Borrower, amount, currency and creation time
// never change after creation.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Currency is the ISO 4217 code a loan request is denominated in.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// Currencies lists the supported currencies.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	default:
		return false
	}
}

// ParseCurrency normalizes s to upper case and checks that it is supported.
func ParseCurrency(s string) (Currency, error) {
	currency := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !currency.IsValid() {
		return "", ErrInvalidCurrency
	}
	return currency, nil
}

// Status is the approval status of a loan request.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// ParseStatus normalizes s to upper case and checks that it is a known status.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// transitions holds the legal edges of the status state machine.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCancelled},
}

// CanTransition reports whether a loan request may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LoanRequest is a request for financing filed by a borrower.
type LoanRequest struct {
	ID         uuid.UUID
	BorrowerID uuid.UUID
	Amount     float64
	Currency   Currency
	Status     Status
	CreatedAt  time.Time
}

// CreateLoanRequestInput contains the parameters for filing a loan request.
type CreateLoanRequestInput struct {
	BorrowerID uuid.UUID
	Amount     float64
	Currency   Currency
}

// ListFilter holds the optional loan request listing filters. Nil fields match everything.
type ListFilter struct {
	Status     *Status
	BorrowerID *uuid.UUID
	Currency   *Currency
}
