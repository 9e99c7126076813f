// Package service hosts the credit line decision engine: strategy selection,
// the accept/reject/escalate state machine, and the retry-limiting policy.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"creditline/internal/creditline/metrics"
	"creditline/internal/creditline/models"
	"creditline/internal/creditline/store"
	"creditline/internal/creditline/strategy"
	id "creditline/pkg/domain"
	dErrors "creditline/pkg/domain-errors"
	"creditline/pkg/platform/sentinel"
	"creditline/pkg/requestcontext"
)

// Config carries the underwriting policy constants.
type Config struct {
	Ratios strategy.Ratios

	// MaxFailedAttempts is the rejection budget. Escalation fires strictly on
	// attempts > MaxFailedAttempts: the threshold-th attempt itself still gets
	// a fresh evaluation. The grace window is deliberate; keep the comparison
	// strict.
	MaxFailedAttempts int

	// EscalationMessage is the fixed advisory returned once attempts are
	// exhausted.
	EscalationMessage string
}

// Service is the decision engine. Stateless apart from the per-customer lock
// table; safe for concurrent use.
type Service struct {
	store   store.Store
	cfg     Config
	locks   *customerLocks
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the engine. The store is required; logging and metrics are
// optional.
func New(st store.Store, cfg Config, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("decision record store is required")
	}
	if cfg.MaxFailedAttempts < 0 {
		return nil, fmt.Errorf("max failed attempts cannot be negative")
	}

	svc := &Service{
		store:  st,
		cfg:    cfg,
		locks:  newCustomerLocks(),
		logger: slog.Default(),
		tracer: otel.Tracer("creditline/service"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Decide evaluates a credit line request and persists the outcome.
//
// Acceptance is returned on the success channel. Plain rejection and
// escalation are surfaced as domain errors carrying CodeRejected and
// CodeEscalated; both still persist an updated record before returning.
// Any store fault comes back as CodeInternal without retries.
func (s *Service) Decide(ctx context.Context, customerID id.CustomerID, profile models.FinancialProfile, category models.FundingCategory) (*models.DecisionOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "creditline.Decide",
		trace.WithAttributes(attribute.String("funding_category", category.String())))
	defer span.End()

	start := time.Now()
	outcome, err := s.decide(ctx, customerID, profile, category)
	s.metrics.ObserveDecideLatency(time.Since(start))
	s.metrics.IncrementDecision(outcomeLabel(err), category.String())

	return outcome, err
}

func (s *Service) decide(ctx context.Context, customerID id.CustomerID, profile models.FinancialProfile, category models.FundingCategory) (*models.DecisionOutcome, error) {
	// Resolve the strategy before touching any state so an unknown category
	// leaves the record untouched. The strategy stays a local value; the
	// engine itself holds no per-request state.
	strat, err := strategy.ForCategory(category, s.cfg.Ratios)
	if err != nil {
		return nil, err
	}

	// Server-stamped time, injected by the request-time middleware.
	now := requestcontext.Now(ctx).UTC()

	unlock := s.locks.lock(customerID)
	defer unlock()

	rec, err := s.store.FindByCustomer(ctx, customerID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return s.decideNew(ctx, customerID, profile, strat, now)
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find decision record")
	}

	return s.decideExisting(ctx, rec, profile, strat, now)
}

// decideNew underwrites a first-time requester and creates the record.
func (s *Service) decideNew(ctx context.Context, customerID id.CustomerID, profile models.FinancialProfile, strat strategy.Strategy, now time.Time) (*models.DecisionOutcome, error) {
	approved := strat.Evaluate(profile)

	rec := &models.DecisionRecord{
		CustomerID:     customerID,
		ApprovedAmount: approved,
		Status:         models.StatusForAmount(approved),
		Attempts:       1,
		RequestedAt:    now,
	}
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	if rec.Status == models.StatusRejected {
		return nil, dErrors.New(dErrors.CodeRejected, "credit line request rejected")
	}
	return &models.DecisionOutcome{Status: models.StatusAccepted, ApprovedAmount: rec.ApprovedAmount}, nil
}

// decideExisting applies the state machine to a returning customer.
func (s *Service) decideExisting(ctx context.Context, rec *models.DecisionRecord, profile models.FinancialProfile, strat strategy.Strategy, now time.Time) (*models.DecisionOutcome, error) {
	if rec.Status == models.StatusAccepted {
		// Re-affirm the standing decision without re-running underwriting,
		// regardless of what the new request contains. Product has flagged
		// re-evaluating against fresh data as an open question; until that is
		// decided the stored amount is echoed unconditionally.
		rec.Touch(now)
		if err := s.save(ctx, rec); err != nil {
			return nil, err
		}
		return &models.DecisionOutcome{Status: models.StatusAccepted, ApprovedAmount: rec.ApprovedAmount}, nil
	}

	if rec.Attempts > s.cfg.MaxFailedAttempts {
		// Budget exhausted: no further underwriting, but the record is still
		// touched so the attempt trail stays complete.
		rec.Touch(now)
		if err := s.save(ctx, rec); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "credit line request escalated",
			"customer_id", rec.CustomerID,
			"attempts", rec.Attempts,
		)
		return nil, dErrors.New(dErrors.CodeEscalated, s.cfg.EscalationMessage)
	}

	approved := strat.Evaluate(profile)
	rec.ApprovedAmount = approved
	rec.Status = models.StatusForAmount(approved)
	rec.Touch(now)
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	if rec.Status == models.StatusRejected {
		return nil, dErrors.New(dErrors.CodeRejected, "credit line request rejected")
	}
	return &models.DecisionOutcome{Status: models.StatusAccepted, ApprovedAmount: rec.ApprovedAmount}, nil
}

// Status is the read-only lookup path. A customer without a record reads as
// REJECTED rather than failing; missing data is not an error here.
func (s *Service) Status(ctx context.Context, customerID id.CustomerID) (models.Status, error) {
	rec, err := s.store.FindByCustomer(ctx, customerID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return models.StatusRejected, nil
	case err != nil:
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "find decision record")
	}
	return rec.Status, nil
}

func (s *Service) save(ctx context.Context, rec *models.DecisionRecord) error {
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to save decision record",
			"customer_id", rec.CustomerID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "save decision record")
	}
	return nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case dErrors.HasCode(err, dErrors.CodeRejected):
		return "rejected"
	case dErrors.HasCode(err, dErrors.CodeEscalated):
		return "escalated"
	default:
		return "error"
	}
}
