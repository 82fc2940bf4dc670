package game

import (
	"errors"
	"fmt"

	"github.com/lox/handrecorder/internal/config"
)

var (
	// ErrIllegalAction is returned for an action out of turn or not in the legal set.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidSize is returned for a bet or raise outside its legal bounds.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvariantViolation indicates an engine bug, never bad input.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrConfiguration is returned when a hand cannot start under the ruleset.
	ErrConfiguration = config.ErrInvalid
	// ErrHandComplete is returned when mutating a finished hand.
	ErrHandComplete = errors.New("hand is complete")
)

// InvariantError describes an internal inconsistency detected while applying
// an action. Once raised the session refuses further actions.
type InvariantError struct {
	Action ActionRecord
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation after %s: %s", e.Action, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}
