package events

import (
	"errors"
	"time"
)

// Policy decides how the Router treats a failing workflow for one event name.
type Policy struct {
	// MaxAttempts is the number of times the workflow runs within one delivery.
	MaxAttempts uint64
	// BaseDelay is the first backoff delay; it doubles per attempt.
	BaseDelay time.Duration
	// Permanent errors are not retried within the delivery.
	Permanent []error
	// Absorb lists errors that are logged and acked instead of propagated.
	Absorb []error
}

// DefaultPolicy retries three times starting at one second and propagates
// every failure.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
}

func (p Policy) absorbs(err error) bool {
	return matchesAny(err, p.Absorb)
}

func (p Policy) permanent(err error) bool {
	return errors.Is(err, ErrInvalidEvent) || matchesAny(err, p.Permanent)
}

func (p Policy) attempts() uint64 {
	if p.MaxAttempts == 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) delay() time.Duration {
	if p.BaseDelay <= 0 {
		return time.Millisecond
	}
	return p.BaseDelay
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PolicyTable maps event names to policies.
type PolicyTable struct {
	fallback Policy
	byEvent  map[string]Policy
}

// NewPolicyTable returns a table that answers fallback for unknown events.
func NewPolicyTable(fallback Policy) *PolicyTable {
	return &PolicyTable{fallback: fallback, byEvent: map[string]Policy{}}
}

// Set assigns p to every named event.
func (t *PolicyTable) Set(p Policy, eventNames ...string) *PolicyTable {
	for _, name := range eventNames {
		t.byEvent[name] = p
	}
	return t
}

// For returns the policy for eventName.
func (t *PolicyTable) For(eventName string) Policy {
	if t == nil {
		return DefaultPolicy
	}
	if p, ok := t.byEvent[eventName]; ok {
		return p
	}
	return t.fallback
}
