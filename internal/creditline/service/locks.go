package service

import (
	"sync"

	id "creditline/pkg/domain"
)

// customerLocks serializes the read-modify-write cycle per customer so two
// concurrent requests cannot both observe the same attempt count. Requests
// for different customers proceed without contention. Entries are reference
// counted and removed once the last holder releases, so the map does not grow
// with the customer population.
type customerLocks struct {
	mu   sync.Mutex
	held map[id.CustomerID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{held: make(map[id.CustomerID]*lockEntry)}
}

// lock acquires the per-customer mutex and returns the release function.
func (l *customerLocks) lock(customerID id.CustomerID) func() {
	l.mu.Lock()
	entry, ok := l.held[customerID]
	if !ok {
		entry = &lockEntry{}
		l.held[customerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, customerID)
		}
		l.mu.Unlock()
	}
}
