// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credits tracks the paid provider's metered credit balance.
//
// The balance itself lives with the provider and is decremented by
// successful reveal calls; this ledger only caches the last reported
// value and gates paid calls on it. Every cached read is stale by
// default, so the check is cost avoidance, not a hard guarantee — the
// provider remains the final authority.
package credits

import (
	"errors"
	"sync"
)

// ErrInsufficientCredits is returned by Reserve when the estimated cost
// of a reveal exceeds the last known balance. It is raised before any
// network call is made.
var ErrInsufficientCredits = errors.New("insufficient credits for requested reveal")

// EstimateCost returns the credit cost of revealing the given number of
// data points for the given number of contacts. Each contact × data point
// combination consumes one credit.
func EstimateCost(contacts, dataPoints int) int {
	return contacts * dataPoints
}

// Ledger caches the paid provider's last reported credit balance and
// serializes paid calls so two reveals can never race a stale read.
type Ledger struct {
	mu        sync.Mutex
	gate      sync.Mutex
	remaining int
	used      int
	known     bool
}

// NewLedger returns a ledger with no known balance.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Observe records a balance reported by the provider.
func (l *Ledger) Observe(remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remaining = remaining
	l.known = true
}

// AddUsed accumulates credits consumed during this process's lifetime and
// decrements the cached balance accordingly.
func (l *Ledger) AddUsed(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.used += n
	if l.known {
		l.remaining -= n
		if l.remaining < 0 {
			l.remaining = 0
		}
	}
}

// Snapshot returns credits used so far, the cached remaining balance, and
// whether any balance has been observed yet.
func (l *Ledger) Snapshot() (used, remaining int, known bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used, l.remaining, l.known
}

// Reserve takes the paid-call gate and checks cost against the cached
// balance. On success the caller holds the gate until it calls the
// returned release func; no other paid call can start in between. When
// the balance is known and below cost, Reserve releases the gate and
// fails with ErrInsufficientCredits without any network traffic.
func (l *Ledger) Reserve(cost int) (release func(), err error) {
	l.gate.Lock()

	l.mu.Lock()
	known, remaining := l.known, l.remaining
	l.mu.Unlock()

	if known && cost > remaining {
		l.gate.Unlock()
		return nil, ErrInsufficientCredits
	}

	var once sync.Once
	return func() { once.Do(l.gate.Unlock) }, nil
}
