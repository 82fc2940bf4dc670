package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handrecorder/internal/chips"
)

type seat struct {
	pos     Position
	contrib string
	folded  bool
	allIn   bool
}

func potFixture(seats []seat) ([]PlayerState, Contributions) {
	var players []PlayerState
	var contrib Contributions
	for _, s := range seats {
		contrib[s.pos] = bb(s.contrib)
		stack := chips.BB(10)
		if s.allIn {
			stack = 0
		}
		players = append(players, PlayerState{Position: s.pos, Stack: stack, Active: !s.folded, AllIn: s.allIn})
	}
	return players, contrib
}

func TestSidePots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		seats []seat
		want  []SidePot
	}{
		{
			name: "no all-in keeps a single pot",
			seats: []seat{
				{pos: UTG, contrib: "3"},
				{pos: SB, contrib: "0.5", folded: true},
				{pos: BB, contrib: "3"},
			},
			want: []SidePot{{Amount: bb("6.5"), Eligible: []Position{UTG, BB}}},
		},
		{
			name: "one short all-in",
			seats: []seat{
				{pos: UTG, contrib: "50", allIn: true},
				{pos: SB, contrib: "100"},
				{pos: BB, contrib: "100"},
			},
			want: []SidePot{
				{Amount: bb("150"), Eligible: []Position{UTG, SB, BB}},
				{Amount: bb("100"), Eligible: []Position{SB, BB}},
			},
		},
		{
			name: "two all-ins at different levels",
			seats: []seat{
				{pos: UTG, contrib: "30", allIn: true},
				{pos: MP, contrib: "70", allIn: true},
				{pos: CO, contrib: "100"},
				{pos: BTN, contrib: "100"},
			},
			want: []SidePot{
				{Amount: bb("120"), Eligible: []Position{UTG, MP, CO, BTN}},
				{Amount: bb("120"), Eligible: []Position{MP, CO, BTN}},
				{Amount: bb("60"), Eligible: []Position{CO, BTN}},
			},
		},
		{
			name: "equal all-ins share a tier",
			seats: []seat{
				{pos: SB, contrib: "40", allIn: true},
				{pos: BB, contrib: "40", allIn: true},
				{pos: BTN, contrib: "40"},
			},
			want: []SidePot{{Amount: bb("120"), Eligible: []Position{BTN, SB, BB}}},
		},
		{
			name: "folded chips stay in as dead money",
			seats: []seat{
				{pos: UTG, contrib: "10", allIn: true},
				{pos: MP, contrib: "40", folded: true},
				{pos: BB, contrib: "40"},
			},
			want: []SidePot{
				{Amount: bb("30"), Eligible: []Position{UTG, BB}},
				{Amount: bb("60"), Eligible: []Position{BB}},
			},
		},
		{
			name: "dead chips above every live seat join the last pot",
			seats: []seat{
				{pos: UTG, contrib: "10", allIn: true},
				{pos: MP, contrib: "50", folded: true},
				{pos: CO, contrib: "20", allIn: true},
			},
			want: []SidePot{
				{Amount: bb("30"), Eligible: []Position{UTG, CO}},
				{Amount: bb("50"), Eligible: []Position{CO}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players, contrib := potFixture(tt.seats)
			pots := SidePots(players, contrib)
			assert.Equal(t, tt.want, pots)

			var total chips.Chips
			for i, p := range pots {
				total += p.Amount
				if i > 0 {
					assert.Subset(t, pots[i-1].Eligible, p.Eligible, "pot %d eligibility must be nested", i)
				}
			}
			assert.Equal(t, contrib.Sum(), total, "pots must add up to the contributions")
		})
	}
}

func TestSidePotsEmpty(t *testing.T) {
	t.Parallel()
	players, contrib := potFixture([]seat{{pos: SB, contrib: "0"}, {pos: BB, contrib: "0"}})
	assert.Nil(t, SidePots(players, contrib))
}

func TestAwardPots(t *testing.T) {
	t.Parallel()
	order := []Position{SB, BB, UTG}
	pots := []SidePot{
		{Amount: bb("30"), Eligible: []Position{UTG, SB, BB}},
		{Amount: bb("20"), Eligible: []Position{SB, BB}},
	}

	t.Run("best hand takes everything it is eligible for", func(t *testing.T) {
		winners, err := AwardPots(pots, [][]Position{{SB}, {BB}, {UTG}}, order)
		require.NoError(t, err)
		assert.Equal(t, []PotWinner{
			{Pot: 0, Position: SB, Amount: bb("30")},
			{Pot: 1, Position: SB, Amount: bb("20")},
		}, winners)
	})

	t.Run("short stack wins the main pot only", func(t *testing.T) {
		winners, err := AwardPots(pots, [][]Position{{UTG}, {BB}, {SB}}, order)
		require.NoError(t, err)
		assert.Equal(t, []PotWinner{
			{Pot: 0, Position: UTG, Amount: bb("30")},
			{Pot: 1, Position: BB, Amount: bb("20")},
		}, winners)
	})

	t.Run("odd chip goes to the first seat in order", func(t *testing.T) {
		odd := []SidePot{{Amount: chips.Chips(101), Eligible: []Position{UTG, SB, BB}}}
		winners, err := AwardPots(odd, [][]Position{{BB, SB}}, order)
		require.NoError(t, err)
		assert.Equal(t, []PotWinner{
			{Pot: 0, Position: SB, Amount: chips.Chips(51)},
			{Pot: 0, Position: BB, Amount: chips.Chips(50)},
		}, winners)
	})

	t.Run("three way split", func(t *testing.T) {
		odd := []SidePot{{Amount: chips.Chips(100), Eligible: []Position{UTG, SB, BB}}}
		winners, err := AwardPots(odd, [][]Position{{UTG, SB, BB}}, order)
		require.NoError(t, err)
		require.Len(t, winners, 3)
		assert.Equal(t, chips.Chips(34), winners[0].Amount)
		assert.Equal(t, chips.Chips(33), winners[1].Amount)
		assert.Equal(t, chips.Chips(33), winners[2].Amount)
	})

	t.Run("no eligible seat ranked", func(t *testing.T) {
		_, err := AwardPots(pots, [][]Position{{UTG}}, order)
		assert.ErrorIs(t, err, ErrIllegalAction)
	})
}
