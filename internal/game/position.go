package game

import (
	"fmt"
	"strings"
)

// Position is one of the six fixed seats at the table, in table order.
type Position int

const (
	UTG Position = iota
	MP
	CO
	BTN
	SB
	BB
)

// NoPosition marks that nobody is due to act.
const NoPosition Position = -1

// NumPositions is the table size.
const NumPositions = 6

var positionNames = [NumPositions]string{"UTG", "MP", "CO", "BTN", "SB", "BB"}

// AllPositions lists every seat in table order.
var AllPositions = []Position{UTG, MP, CO, BTN, SB, BB}

// Valid reports whether p names a seat.
func (p Position) Valid() bool {
	return p >= UTG && p <= BB
}

func (p Position) String() string {
	if !p.Valid() {
		return "none"
	}
	return positionNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePosition parses a seat label such as "btn" or "UTG". "none" yields NoPosition.
func ParsePosition(s string) (Position, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	if label == "NONE" {
		return NoPosition, nil
	}
	for i, name := range positionNames {
		if name == label {
			return Position(i), nil
		}
	}
	return NoPosition, fmt.Errorf("unknown position %q", s)
}

var (
	preflopOrder  = [NumPositions]Position{UTG, MP, CO, BTN, SB, BB}
	postflopOrder = [NumPositions]Position{SB, BB, UTG, MP, CO, BTN}
)

// ActionOrder returns the dealt-in seats in the order they act on the given
// street. Heads-up the small blind holds the button: it acts first preflop and
// last afterwards.
func ActionOrder(street Street, seated []Position) []Position {
	in := seatSet(seated)

	if len(seated) == 2 && in[SB] && in[BB] {
		if street == Preflop {
			return []Position{SB, BB}
		}
		return []Position{BB, SB}
	}

	order := postflopOrder
	if street == Preflop {
		order = preflopOrder
	}
	out := make([]Position, 0, len(seated))
	for _, p := range order {
		if in[p] {
			out = append(out, p)
		}
	}
	return out
}

// ButtonFor returns the seat holding the dealer button: BTN when dealt in,
// otherwise the nearest dealt-in seat before the small blind. Heads-up the
// small blind holds the button.
func ButtonFor(seated []Position) Position {
	in := seatSet(seated)
	if len(seated) == 2 && in[SB] && in[BB] {
		return SB
	}
	for _, p := range []Position{BTN, CO, MP, UTG} {
		if in[p] {
			return p
		}
	}
	return NoPosition
}

func seatSet(seated []Position) [NumPositions]bool {
	var in [NumPositions]bool
	for _, p := range seated {
		if p.Valid() {
			in[p] = true
		}
	}
	return in
}

// nextInOrder returns the first seat after from in order (wrapping) that
// satisfies ok, or NoPosition.
func nextInOrder(order []Position, from Position, ok func(Position) bool) Position {
	start := 0
	for i, p := range order {
		if p == from {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		p := order[(start+i)%len(order)]
		if ok(p) {
			return p
		}
	}
	return NoPosition
}

// firstInOrder returns the first seat in order that satisfies ok, or NoPosition.
func firstInOrder(order []Position, ok func(Position) bool) Position {
	for _, p := range order {
		if ok(p) {
			return p
		}
	}
	return NoPosition
}
