package game

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/poker"
)

var sixMax = []Position{UTG, MP, CO, BTN, SB, BB}

func bb(s string) chips.Chips {
	return chips.MustParse(s)
}

func fixedClock(t *testing.T) *quartz.Mock {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	return clock
}

// newHand starts a hand under the default 0.5/1 rules with the natural button.
func newHand(t *testing.T, positions []Position, opts ...HandOption) *Session {
	t.Helper()
	opts = append([]HandOption{WithClock(fixedClock(t))}, opts...)
	s, err := StartNewHand(config.DefaultRules(), positions, ButtonFor(positions), opts...)
	require.NoError(t, err)
	return s
}

// act records an action for the seat to act and fails the test if rejected.
// amount is only needed for bets and raises.
func act(t *testing.T, s *Session, pos Position, kind ActionKind, amount ...string) GameState {
	t.Helper()
	rec := ActionRecord{Position: pos, Kind: kind, Street: s.State().Street}
	if len(amount) > 0 {
		rec.Size = Sized(bb(amount[0]))
	}
	state, err := s.AddAction(rec)
	require.NoError(t, err, "%s %s", pos, kind)
	return state
}

func foldAll(t *testing.T, s *Session, positions ...Position) {
	t.Helper()
	for _, pos := range positions {
		act(t, s, pos, Fold)
	}
}

func voluntaryTotal(actions []ActionRecord) chips.Chips {
	var total chips.Chips
	for _, a := range actions {
		if a.Kind != PostBlind {
			total += a.Amount()
		}
	}
	return total
}

func mustHand(t *testing.T, s string) poker.Hand {
	t.Helper()
	h, err := poker.ParseHand(s)
	require.NoError(t, err)
	return h
}
