package game

import (
	"fmt"
	"strings"
)

// Validation is the outcome of checking a proposed action. Err wraps
// ErrIllegalAction or ErrInvalidSize when Valid is false.
type Validation struct {
	Valid  bool
	Reason string
	Err    error
}

func reject(sentinel error, format string, args ...any) Validation {
	reason := fmt.Sprintf(format, args...)
	return Validation{Reason: reason, Err: fmt.Errorf("%w: %s", sentinel, reason)}
}

// ValidateAction checks rec against state: turn order first, then membership
// in the legal set, then sizing bounds.
func ValidateAction(rec ActionRecord, state GameState) Validation {
	v, _ := validate(rec, state)
	return v
}

// IsActionAllowed reports whether rec would be accepted in state.
func IsActionAllowed(rec ActionRecord, state GameState) bool {
	return ValidateAction(rec, state).Valid
}

func validate(rec ActionRecord, state GameState) (Validation, LegalAction) {
	if state.Terminal {
		return reject(ErrIllegalAction, "hand is complete"), LegalAction{}
	}
	if !rec.Kind.Valid() {
		return reject(ErrIllegalAction, "unknown action kind %d", int(rec.Kind)), LegalAction{}
	}
	if !rec.Street.Valid() {
		return reject(ErrIllegalAction, "unknown street %d", int(rec.Street)), LegalAction{}
	}
	if rec.Position != state.CurrentPosition {
		return reject(ErrIllegalAction, "out of turn: %s acted but %s is to act", rec.Position, state.CurrentPosition), LegalAction{}
	}
	if rec.Street != state.Street {
		return reject(ErrIllegalAction, "action recorded for %s during %s", rec.Street, state.Street), LegalAction{}
	}
	if rec.Kind == PostBlind {
		return reject(ErrIllegalAction, "blinds are posted at hand start"), LegalAction{}
	}

	legal := state.AvailableActions()
	l, ok := FindLegal(legal, rec.Kind)
	if !ok {
		return reject(ErrIllegalAction, "%s cannot %s; legal actions: %s", rec.Position, rec.Kind, joinKinds(legal)), LegalAction{}
	}

	amount := rec.Amount()
	if rec.Size != nil && amount < 0 {
		return reject(ErrInvalidSize, "negative amount %s", amount), l
	}
	switch rec.Kind {
	case Fold, Check:
		if amount != 0 {
			return reject(ErrInvalidSize, "%s carries no chips, got %s", rec.Kind, amount), l
		}
	case Call, AllIn:
		if rec.Size != nil && amount != l.Min {
			return reject(ErrInvalidSize, "%s must be exactly %s, got %s", rec.Kind, l.Min, amount), l
		}
	case Bet, Raise:
		if rec.Size == nil {
			return reject(ErrInvalidSize, "%s requires an amount", rec.Kind), l
		}
		if amount < l.Min || amount > l.Max {
			return reject(ErrInvalidSize, "%s of %s outside [%s, %s]", rec.Kind, amount, l.Min, l.Max), l
		}
	case PostBlind:
		// rejected above
	}

	return Validation{Valid: true}, l
}

// normalize fills the implied amount of calls and all-ins and drops sizes
// from fold and check.
func normalize(rec ActionRecord, l LegalAction) ActionRecord {
	switch rec.Kind {
	case Fold, Check:
		rec.Size = nil
	case Call, AllIn:
		rec.Size = Sized(l.Min)
	case Bet, Raise, PostBlind:
		rec.Size = Sized(rec.Amount())
	}
	return rec
}

// SelectablePositions returns the seats a position picker should enable:
// only the seat to act, or none once the hand is over.
func SelectablePositions(state GameState) []Position {
	if state.Terminal || !state.CurrentPosition.Valid() {
		return nil
	}
	return []Position{state.CurrentPosition}
}

// CanSelectPosition reports whether pos may be picked to record the next action.
func CanSelectPosition(pos Position, state GameState) bool {
	return !state.Terminal && pos.Valid() && pos == state.CurrentPosition
}

func joinKinds(legal []LegalAction) string {
	names := make([]string, len(legal))
	for i, l := range legal {
		names[i] = l.Kind.String()
	}
	return strings.Join(names, ", ")
}
