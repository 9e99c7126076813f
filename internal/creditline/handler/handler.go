// Package handler exposes the credit line decision engine over HTTP: header
// and body translation, contract envelope responses, and the outcome-to-status
// mapping (202 accepted, 200 rejected or escalated).
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creditline/internal/creditline/models"
	id "creditline/pkg/domain"
	dErrors "creditline/pkg/domain-errors"
	"creditline/pkg/platform/httputil"
)

const (
	headerCustomerID  = "customerId"
	headerFundingType = "foundingType"
)

// Service is the engine seam the handler depends on.
type Service interface {
	Decide(ctx context.Context, customerID id.CustomerID, profile models.FinancialProfile, category models.FundingCategory) (*models.DecisionOutcome, error)
	Status(ctx context.Context, customerID id.CustomerID) (models.Status, error)
}

// Handler serves the credit line endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	rateLimit func(http.Handler) http.Handler
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithRateLimit installs a middleware run on the decision endpoint before the
// engine is invoked. The status lookup is not limited.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.rateLimit = mw
	}
}

func New(service Service, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the credit line routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/credit-line", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.rateLimit != nil {
				r.Use(h.rateLimit)
			}
			r.Post("/request", h.requestCreditLine)
		})
		r.Get("/status", h.status)
	})
}

func (h *Handler) requestCreditLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customerID, err := customerIDHeader(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	fundingType := r.Header.Get(headerFundingType)
	if fundingType == "" {
		httputil.WriteError(w, r, dErrors.New(dErrors.CodeMissingHeader, "missing required header: "+headerFundingType))
		return
	}
	category, err := models.ParseFundingCategory(fundingType)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req creditLineRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	profile, err := req.toProfile()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	outcome, err := h.service.Decide(ctx, customerID, profile, category)
	switch {
	case err == nil:
		httputil.WriteResponse(w, r, http.StatusAccepted, acceptedResponse(outcome))
	case dErrors.HasCode(err, dErrors.CodeRejected):
		// A rejection is a delivered business answer, not a request failure.
		httputil.WriteResponse(w, r, http.StatusOK, rejectedResponse(""))
	case dErrors.HasCode(err, dErrors.CodeEscalated):
		httputil.WriteResponse(w, r, http.StatusOK, rejectedResponse(dErrors.MessageOf(err)))
	default:
		h.logger.ErrorContext(ctx, "credit line decision failed",
			"customer_id", customerID,
			"error", err,
		)
		httputil.WriteError(w, r, err)
	}
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerIDHeader(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	status, err := h.service.Status(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "credit line status lookup failed",
			"customer_id", customerID,
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteResponse(w, r, http.StatusOK, statusResponse{CreditLineStatus: status})
}

func customerIDHeader(r *http.Request) (id.CustomerID, error) {
	raw := r.Header.Get(headerCustomerID)
	if raw == "" {
		return id.CustomerID{}, dErrors.New(dErrors.CodeMissingHeader, "missing required header: "+headerCustomerID)
	}
	return id.ParseCustomerID(raw)
}
