package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/handrecorder/internal/chips"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown"}

// Valid reports whether s is a known street.
func (s Street) Valid() bool {
	return s >= Preflop && s <= Showdown
}

func (s Street) String() string {
	if !s.Valid() {
		return fmt.Sprintf("street(%d)", int(s))
	}
	return streetNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if name == strings.ToLower(string(text)) {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// boardCards is the number of community cards visible on each street.
var boardCards = [...]int{0, 3, 4, 5, 5}

// ActionKind is what a seat did.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllIn
	// PostBlind is seeded by the engine at hand start and never offered.
	PostBlind
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "allin", "post"}

// Valid reports whether a is a known action.
func (a ActionKind) Valid() bool {
	return a >= Fold && a <= PostBlind
}

func (a ActionKind) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a ActionKind) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ActionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseActionKind parses an action name. "all-in" and "allin" are both accepted.
func ParseActionKind(s string) (ActionKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	for i, n := range actionNames {
		if n == name {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// sizing reports whether the action carries a player-chosen amount.
func (a ActionKind) sizing() bool {
	switch a {
	case Bet, Raise:
		return true
	case Fold, Check, Call, AllIn, PostBlind:
		return false
	}
	panic(fmt.Sprintf("unhandled action kind %d", a))
}

// Size is the incremental number of chips an action puts in, not the running total.
type Size struct {
	Amount chips.Chips
}

// Sized returns a Size for amount.
func Sized(amount chips.Chips) *Size {
	return &Size{Amount: amount}
}

// ActionRecord is one immutable entry in the hand's action log.
type ActionRecord struct {
	Position  Position
	Kind      ActionKind
	Size      *Size
	Street    Street
	Timestamp time.Time
}

// Amount returns the chips the record added, zero when unsized.
func (r ActionRecord) Amount() chips.Chips {
	if r.Size == nil {
		return 0
	}
	return r.Size.Amount
}

func (r ActionRecord) String() string {
	if r.Size == nil {
		return fmt.Sprintf("%s %s", r.Position, r.Kind)
	}
	return fmt.Sprintf("%s %s %s", r.Position, r.Kind, r.Size.Amount)
}
