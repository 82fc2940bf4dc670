package game

import (
	"fmt"
	"slices"

	"github.com/lox/handrecorder/internal/chips"
)

// SidePot is a main or side pot and the seats that can win it.
type SidePot struct {
	Amount   chips.Chips
	Eligible []Position // table order
}

// PotWinner is one seat's share of one pot.
type PotWinner struct {
	Pot      int
	Position Position
	Amount   chips.Chips
}

// SidePots splits total contributions into a main pot and side pots.
//
// Tiers are the distinct contributions of every seat still in the hand,
// topped by the largest contribution overall. Each pot takes every seat's
// chips between the previous tier and its own, so folded chips stay in as
// dead money, and is winnable by the live seats that reached the tier.
// Without a live all-in there is exactly one pot.
func SidePots(players []PlayerState, contrib Contributions) []SidePot {
	total := contrib.Sum()
	if total == 0 {
		return nil
	}

	var live []Position
	var tiers []chips.Chips
	allIn := false
	for _, pos := range AllPositions {
		p, ok := findPlayer(players, pos)
		if !ok || !p.Active {
			continue
		}
		live = append(live, pos)
		allIn = allIn || p.AllIn
		if contrib[pos] > 0 {
			tiers = append(tiers, contrib[pos])
		}
	}

	if !allIn {
		return []SidePot{{Amount: total, Eligible: live}}
	}

	tiers = append(tiers, contrib.Max())
	slices.Sort(tiers)
	tiers = slices.Compact(tiers)

	var pots []SidePot
	var prev chips.Chips
	for _, tier := range tiers {
		var amount chips.Chips
		for _, c := range contrib {
			amount += chips.Max(chips.Min(c, tier)-prev, 0)
		}

		var eligible []Position
		for _, pos := range live {
			if contrib[pos] >= tier {
				eligible = append(eligible, pos)
			}
		}
		prev = tier

		if amount == 0 {
			continue
		}
		if len(eligible) == 0 && len(pots) > 0 {
			// Dead chips above every live seat's reach go to the last
			// contestable pot.
			pots[len(pots)-1].Amount += amount
			continue
		}
		pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
	}
	return pots
}

// AwardPots distributes each pot to the best-ranked seats eligible for it.
// ranking lists seats strongest first; seats sharing an entry tie. Odd chips
// go to the first winner in order, which should be the postflop action order
// so the remainder lands closest to the left of the button.
func AwardPots(pots []SidePot, ranking [][]Position, order []Position) ([]PotWinner, error) {
	var winners []PotWinner

	for i, pot := range pots {
		var best []Position
		for _, tier := range ranking {
			for _, pos := range order {
				if slices.Contains(tier, pos) && slices.Contains(pot.Eligible, pos) {
					best = append(best, pos)
				}
			}
			if len(best) > 0 {
				break
			}
		}
		if len(best) == 0 {
			return nil, fmt.Errorf("%w: no ranked seat is eligible for pot %d (eligible %v)", ErrIllegalAction, i, pot.Eligible)
		}

		share := pot.Amount / chips.Chips(len(best))
		remainder := pot.Amount % chips.Chips(len(best))
		for j, pos := range best {
			amount := share
			if j == 0 {
				amount += remainder
			}
			winners = append(winners, PotWinner{Pot: i, Position: pos, Amount: amount})
		}
	}
	return winners, nil
}

// winnings totals the amounts won per seat.
func winnings(winners []PotWinner) Contributions {
	var won Contributions
	for _, w := range winners {
		won[w.Position] += w.Amount
	}
	return won
}
