package handler

import (
	"github.com/shopspring/decimal"

	"creditline/internal/creditline/models"
)

// creditLineResponse is the success payload inside the contract envelope.
// AcceptedCreditLine is present only on acceptance; Message only when a
// rejection has been escalated to a sales agent.
type creditLineResponse struct {
	CreditLineStatus   models.Status    `json:"creditLineStatus"`
	AcceptedCreditLine *decimal.Decimal `json:"acceptedCreditLine,omitempty"`
	Message            string           `json:"message,omitempty"`
}

func acceptedResponse(outcome *models.DecisionOutcome) creditLineResponse {
	amount := outcome.ApprovedAmount
	return creditLineResponse{
		CreditLineStatus:   models.StatusAccepted,
		AcceptedCreditLine: &amount,
	}
}

func rejectedResponse(message string) creditLineResponse {
	return creditLineResponse{
		CreditLineStatus: models.StatusRejected,
		Message:          message,
	}
}

type statusResponse struct {
	CreditLineStatus models.Status `json:"creditLineStatus"`
}
