// Package domain defines typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment. Parse helpers enforce the trust-boundary invariant that IDs are
// valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "creditline/pkg/domain-errors"
)

// CustomerID identifies the customer a credit line decision belongs to.
type CustomerID uuid.UUID

// ParseCustomerID parses and validates a customer ID supplied at an API boundary.
func ParseCustomerID(s string) (CustomerID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return CustomerID{}, err
	}
	return CustomerID(u), nil
}

// NewCustomerID returns a random customer ID. Intended for tests and fixtures.
func NewCustomerID() CustomerID {
	return CustomerID(uuid.New())
}

// IsNil reports whether the ID is the zero UUID.
func (c CustomerID) IsNil() bool {
	return uuid.UUID(c) == uuid.Nil
}

// String returns the canonical UUID string form.
func (c CustomerID) String() string {
	return uuid.UUID(c).String()
}

// UUID exposes the underlying UUID for store layers.
func (c CustomerID) UUID() uuid.UUID {
	return uuid.UUID(c)
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	// uuid.Parse accepts several exotic encodings; cap length to the canonical
	// forms so oversized or injected input is rejected early.
	if len(s) > 45 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}
