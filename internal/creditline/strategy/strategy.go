// Package strategy implements the underwriting rules, one per funding
// category. Every rule is a pure function of the financial profile plus a
// configured ratio: no shared state, safe for concurrent use.
//
// Monetary values stay in decimal arithmetic end to end; rounding (half up,
// two places) happens only at the point an amount is returned, never on
// intermediate results.
package strategy

import (
	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
	dErrors "creditline/pkg/domain-errors"
)

// Strategy computes the approved credit line for one funding category.
// A zero result means the request is declined.
type Strategy interface {
	Evaluate(profile models.FinancialProfile) decimal.Decimal
}

// Ratios holds the per-category configuration constants.
type Ratios struct {
	// SMERevenueRatio divides monthly revenue to form the SME approval ceiling.
	SMERevenueRatio int
	// StartupCashRatio divides cash balance to form the STARTUP approval ceiling.
	StartupCashRatio int
}

// ForCategory selects the strategy for a funding category. Adding a category
// means adding a case here and a rule type below; the engine never changes.
func ForCategory(category models.FundingCategory, ratios Ratios) (Strategy, error) {
	switch category {
	case models.CategorySME:
		if ratios.SMERevenueRatio <= 0 {
			return nil, dErrors.New(dErrors.CodeInternal, "sme revenue ratio must be positive")
		}
		return SME{RevenueRatio: decimal.NewFromInt(int64(ratios.SMERevenueRatio))}, nil
	case models.CategoryStartup:
		if ratios.StartupCashRatio <= 0 {
			return nil, dErrors.New(dErrors.CodeInternal, "startup cash ratio must be positive")
		}
		return Startup{CashRatio: decimal.NewFromInt(int64(ratios.StartupCashRatio))}, nil
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown funding category: "+category.String())
	}
}

// approve grants the requested amount, rounded half up to two places, when it
// does not exceed the recommended ceiling.
func approve(requested, ceiling decimal.Decimal) decimal.Decimal {
	if requested.LessThanOrEqual(ceiling) {
		return requested.Round(2)
	}
	return decimal.Zero
}
