// Package models holds the value objects of the credit line module.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "creditline/pkg/domain"
	dErrors "creditline/pkg/domain-errors"
)

// Status is the persisted outcome of the latest credit line decision.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return s == StatusAccepted || s == StatusRejected
}

// StatusForAmount derives the status from an approved amount: zero means the
// request was declined. This is the single place the status/amount invariant
// (REJECTED iff amount == 0) is encoded.
func StatusForAmount(amount decimal.Decimal) Status {
	if amount.IsZero() {
		return StatusRejected
	}
	return StatusAccepted
}

// FundingCategory classifies the requester's business and selects the
// underwriting rule. A closed enumeration: the engine fails on anything else.
type FundingCategory string

const (
	CategorySME     FundingCategory = "SME"
	CategoryStartup FundingCategory = "STARTUP"
)

// ParseFundingCategory validates a category supplied at an API boundary.
func ParseFundingCategory(s string) (FundingCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "funding category cannot be empty")
	}
	c := FundingCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown funding category: "+s)
	}
	return c, nil
}

// IsValid checks if the category is one of the supported enum values.
func (c FundingCategory) IsValid() bool {
	return c == CategorySME || c == CategoryStartup
}

// String returns the string representation.
func (c FundingCategory) String() string {
	return string(c)
}

// FinancialProfile carries the financial inputs of one request. Constructed
// once per request and never mutated. All amounts are non-negative decimals;
// CashBalance is zero when the requester did not supply one.
type FinancialProfile struct {
	MonthlyRevenue  decimal.Decimal
	RequestedAmount decimal.Decimal
	CashBalance     decimal.Decimal
}

// DecisionRecord is the persisted per-customer state: the latest decision and
// the running attempt count. One record per customer, created on the first
// request and overwritten on every subsequent one.
//
// Invariants maintained by the engine:
//   - Status == StatusRejected iff ApprovedAmount is zero.
//   - Attempts increases by exactly one on every write and is never reset,
//     not even by an acceptance.
type DecisionRecord struct {
	CustomerID     id.CustomerID
	ApprovedAmount decimal.Decimal
	Status         Status
	Attempts       int
	RequestedAt    time.Time
}

// Touch refreshes the request bookkeeping: one more attempt, new server time.
func (r *DecisionRecord) Touch(now time.Time) {
	r.Attempts++
	r.RequestedAt = now.UTC()
}

// DecisionOutcome is what the engine returns to the caller on the success
// channel. Message is populated only when an escalation body is synthesized
// at the transport layer.
type DecisionOutcome struct {
	Status         Status
	ApprovedAmount decimal.Decimal
	Message        string
}
