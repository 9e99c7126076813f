// Package store persists decision records, one per customer.
package store

import (
	"context"

	"creditline/internal/creditline/models"
	id "creditline/pkg/domain"
)

// Store is the persistence contract the decision engine requires. The store
// is the single source of truth for attempt counts; the engine never caches
// records across requests.
type Store interface {
	// FindByCustomer returns the customer's record, or sentinel.ErrNotFound
	// (possibly wrapped) when none exists. No side effects.
	FindByCustomer(ctx context.Context, customerID id.CustomerID) (*models.DecisionRecord, error)

	// Save upserts the full record atomically for the customer key.
	Save(ctx context.Context, record *models.DecisionRecord) error
}
