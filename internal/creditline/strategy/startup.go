package strategy

import (
	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
)

// Startup thresholds on cash balance instead of revenue: early-stage companies
// are underwritten against the cash they hold. A requester that supplied no
// cash balance evaluates against a zero ceiling and is declined.
type Startup struct {
	CashRatio decimal.Decimal
}

func (s Startup) Evaluate(profile models.FinancialProfile) decimal.Decimal {
	ceiling := profile.CashBalance.Div(s.CashRatio)
	return approve(profile.RequestedAmount, ceiling)
}
