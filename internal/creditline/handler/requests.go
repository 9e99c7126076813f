package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
	dErrors "creditline/pkg/domain-errors"
)

// creditLineRequest is the wire shape of a credit line application. Pointer
// fields distinguish absent from zero; requestedDate is accepted for contract
// compatibility but never read, the server stamps its own time.
type creditLineRequest struct {
	MonthlyRevenue      *decimal.Decimal `json:"monthlyRevenue"`
	RequestedCreditLine *decimal.Decimal `json:"requestedCreditLine"`
	CashBalance         *decimal.Decimal `json:"cashBalance"`
	RequestedDate       *time.Time       `json:"requestedDate"`
}

// toProfile validates the wire request and translates it into the domain
// profile. A missing cash balance evaluates as zero.
func (req creditLineRequest) toProfile() (models.FinancialProfile, error) {
	if req.MonthlyRevenue == nil {
		return models.FinancialProfile{}, dErrors.New(dErrors.CodeInvalidInput, "monthlyRevenue is required")
	}
	if req.RequestedCreditLine == nil {
		return models.FinancialProfile{}, dErrors.New(dErrors.CodeInvalidInput, "requestedCreditLine is required")
	}
	if req.MonthlyRevenue.IsNegative() {
		return models.FinancialProfile{}, dErrors.New(dErrors.CodeInvalidInput, "monthlyRevenue cannot be negative")
	}
	if req.RequestedCreditLine.IsNegative() {
		return models.FinancialProfile{}, dErrors.New(dErrors.CodeInvalidInput, "requestedCreditLine cannot be negative")
	}

	profile := models.FinancialProfile{
		MonthlyRevenue:  *req.MonthlyRevenue,
		RequestedAmount: *req.RequestedCreditLine,
	}
	if req.CashBalance != nil {
		if req.CashBalance.IsNegative() {
			return models.FinancialProfile{}, dErrors.New(dErrors.CodeInvalidInput, "cashBalance cannot be negative")
		}
		profile.CashBalance = *req.CashBalance
	}
	return profile, nil
}
