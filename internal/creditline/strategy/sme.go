package strategy

import (
	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
)

// SME approves the requested amount in full when it is covered by a fraction
// of the requester's monthly revenue.
type SME struct {
	RevenueRatio decimal.Decimal
}

func (s SME) Evaluate(profile models.FinancialProfile) decimal.Decimal {
	ceiling := profile.MonthlyRevenue.Div(s.RevenueRatio)
	return approve(profile.RequestedAmount, ceiling)
}
