package game

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrecorder/internal/chips"
)

func TestOpeningActions(t *testing.T) {
	t.Parallel()
	s := newHand(t, sixMax)

	legal := s.AvailableActions()
	assert.Equal(t, []LegalAction{
		{Kind: Fold},
		{Kind: Call, Min: bb("1"), Max: bb("1")},
		{Kind: Raise, Min: bb("2"), Max: bb("100")},
	}, legal)
}

func TestFirstBetOnFlopIsBet(t *testing.T) {
	t.Parallel()
	s := newHand(t, []Position{SB, BB})
	act(t, s, SB, Call)
	act(t, s, BB, Check)

	assert.Equal(t, []LegalAction{
		{Kind: Fold},
		{Kind: Check},
		{Kind: Bet, Min: bb("1"), Max: bb("99")},
	}, s.AvailableActions())

	// After a bet the other seat faces a raise with the bet as minimum increment
	state := act(t, s, BB, Bet, "5")
	assert.Equal(t, []LegalAction{
		{Kind: Fold},
		{Kind: Call, Min: bb("5"), Max: bb("5")},
		{Kind: Raise, Min: bb("10"), Max: bb("99")},
	}, state.AvailableActions())
}

func TestShortStackOnlyAllIn(t *testing.T) {
	t.Parallel()
	s := newHand(t, []Position{UTG, SB, BB}, WithStacks(map[Position]chips.Chips{UTG: bb("1")}))

	// UTG can only just call the big blind
	assert.Equal(t, []LegalAction{
		{Kind: Fold},
		{Kind: Call, Min: bb("1"), Max: bb("1")},
		{Kind: AllIn, Min: bb("1"), Max: bb("1")},
	}, s.AvailableActions())
}

func TestAllInOfferedBelowMinRaise(t *testing.T) {
	t.Parallel()
	s := newHand(t, []Position{UTG, SB, BB}, WithStacks(map[Position]chips.Chips{UTG: bb("1.5")}))

	legal := s.AvailableActions()
	assert.Equal(t, []ActionKind{Fold, Call, Raise, AllIn}, Kinds(legal))
	raise, _ := FindLegal(legal, Raise)
	assert.Equal(t, bb("1.5"), raise.Min)
	assert.Equal(t, bb("1.5"), raise.Max)
}

func TestBigBlindAlwaysOfferedFold(t *testing.T) {
	t.Parallel()

	lines := map[string]func(*testing.T, *Session){
		"limped": func(t *testing.T, s *Session) {
			act(t, s, UTG, Call)
			act(t, s, SB, Call)
		},
		"completed": func(t *testing.T, s *Session) {
			act(t, s, UTG, Fold)
			act(t, s, SB, Call)
		},
		"raised": func(t *testing.T, s *Session) {
			act(t, s, UTG, Raise, "2")
			act(t, s, SB, Fold)
		},
	}

	for name, line := range lines {
		t.Run(name, func(t *testing.T) {
			s := newHand(t, []Position{UTG, SB, BB})
			line(t, s)
			require.Equal(t, BB, s.State().CurrentPosition)
			assert.Equal(t, Fold, s.AvailableActions()[0].Kind)
		})
	}
}

func TestAvailableActionsForSeatsThatCannotAct(t *testing.T) {
	t.Parallel()
	s := newHand(t, []Position{UTG, SB, BB})
	state := act(t, s, UTG, Fold)

	assert.Nil(t, AvailableActions(UTG, state.Street, state.Actions, state.Players, state.BigBlind), "folded")
	assert.Nil(t, AvailableActions(CO, state.Street, state.Actions, state.Players, state.BigBlind), "not dealt in")
	assert.Nil(t, AvailableActions(SB, Showdown, state.Actions, state.Players, state.BigBlind), "showdown")
}

func TestToCall(t *testing.T) {
	t.Parallel()
	s := newHand(t, sixMax)
	state := act(t, s, UTG, Raise, "3")

	assert.Equal(t, bb("3"), state.ToCall())
	assert.Equal(t, bb("2.5"), ToCall(SB, Preflop, state.Actions, state.Players))
	assert.Equal(t, bb("2"), ToCall(BB, Preflop, state.Actions, state.Players))
	assert.Equal(t, chips.Chips(0), ToCall(UTG, Preflop, state.Actions, state.Players))
}

func TestPotRelative(t *testing.T) {
	t.Parallel()
	legal := LegalAction{Kind: Raise, Min: bb("4"), Max: bb("50")}

	tests := []struct {
		name     string
		pot      string
		toCall   string
		multiple string
		want     string
	}{
		{"pot sized raise", "4.5", "2", "1", "8.5"},
		{"half pot bet", "10", "0", "0.5", "5"},
		{"clamped to minimum", "1.5", "0", "0.33", "4"},
		{"clamped to stack", "100", "0", "1", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PotRelative(legal, bb(tt.pot), bb(tt.toCall), decimal.RequireFromString(tt.multiple))
			assert.Equal(t, bb(tt.want), got)
		})
	}
}

// TestRandomHandsHoldInvariants plays random legal lines and checks the
// accounting after every action.
func TestRandomHandsHoldInvariants(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))

	tables := [][]Position{
		sixMax,
		{SB, BB},
		{UTG, SB, BB},
		{MP, BTN, SB, BB},
		{UTG, CO, SB, BB},
	}

	for i := 0; i < 200; i++ {
		positions := tables[i%len(tables)]
		stacks := make(map[Position]chips.Chips)
		for _, pos := range positions {
			stacks[pos] = chips.BB(1) + chips.Chips(rng.Int63n(int64(chips.BB(150))))
		}

		s := newHand(t, positions, WithStacks(stacks))
		blinds := PostedBlinds(s.State().Actions)
		lastStreet := Preflop

		for steps := 0; !s.State().Terminal; steps++ {
			require.Less(t, steps, 200, "hand %d never finished", i)

			state := s.State()
			legal := state.AvailableActions()
			require.NotEmpty(t, legal, "hand %d: %s has no actions", i, state.CurrentPosition)

			choice := legal[rng.Intn(len(legal))]
			rec := ActionRecord{Position: state.CurrentPosition, Kind: choice.Kind, Street: state.Street}
			if choice.Kind == Bet || choice.Kind == Raise {
				rec.Size = Sized(choice.Min + chips.Chips(rng.Int63n(int64(choice.Max-choice.Min)+1)))
			}

			next, err := s.AddAction(rec)
			require.NoError(t, err, "hand %d: %s", i, rec)

			assert.Equal(t, blinds+voluntaryTotal(next.Actions), next.Pot)
			assert.GreaterOrEqual(t, next.Street, lastStreet, "streets never go backwards")
			lastStreet = next.Street
			if !next.Terminal && next.Street == rec.Street {
				assert.NotEqual(t, rec.Position, next.CurrentPosition, "hand %d: turn must move on after %s", i, rec)
			}

			var live chips.Chips
			pots := next.CurrentSidePots()
			for j, p := range pots {
				live += p.Amount
				if j > 0 {
					assert.Subset(t, pots[j-1].Eligible, p.Eligible, "hand %d: pot %d eligibility", i, j)
				}
			}
			assert.Equal(t, next.Pot, live, "hand %d: pots while betting", i)

			for _, p := range next.Players {
				assert.Equal(t, stacks[p.Position], p.Stack+next.TotalContributions().Of(p.Position))
			}
		}

		state := s.State()
		var total chips.Chips
		for _, p := range state.SidePots {
			total += p.Amount
		}
		assert.Equal(t, state.Pot, total, "hand %d side pots", i)

		ranking := make([][]Position, 0, len(state.Positions))
		for _, pos := range rng.Perm(len(state.Positions)) {
			ranking = append(ranking, []Position{state.Positions[pos]})
		}
		hand, err := s.Finalize(ranking)
		require.NoError(t, err, "hand %d", i)

		var net chips.Chips
		for _, r := range hand.Results {
			net += r.Net
		}
		assert.Equal(t, chips.Chips(0), net)
	}
}
