package game

import (
	"github.com/shopspring/decimal"

	"github.com/lox/handrecorder/internal/chips"
)

// LegalAction is an action available to the seat to act. Min and Max bound
// the incremental chips the action adds; both are zero for fold and check.
type LegalAction struct {
	Kind ActionKind
	Min  chips.Chips
	Max  chips.Chips
}

// FindLegal returns the entry for kind, if offered.
func FindLegal(legal []LegalAction, kind ActionKind) (LegalAction, bool) {
	for _, l := range legal {
		if l.Kind == kind {
			return l, true
		}
	}
	return LegalAction{}, false
}

// Kinds returns just the action kinds.
func Kinds(legal []LegalAction) []ActionKind {
	kinds := make([]ActionKind, len(legal))
	for i, l := range legal {
		kinds[i] = l.Kind
	}
	return kinds
}

// bettingRound summarises one street of the action log. Indexes are 1-based
// positions within the street's records; zero means "never".
type bettingRound struct {
	contrib  Contributions
	minRaise chips.Chips // smallest legal raise increment
	opened   bool        // someone has put chips in this street
	acted    [NumPositions]int
	lastFull int // latest bet or raise of at least a full increment
	lastAggr int // latest voluntary action that raised the bet, full or not
}

func analyzeStreet(actions []ActionRecord, street Street, bigBlind chips.Chips) bettingRound {
	r := bettingRound{minRaise: bigBlind}
	var currentBet chips.Chips
	n := 0

	for _, a := range actions {
		if a.Street != street {
			continue
		}
		n++
		r.contrib[a.Position] += a.Amount()
		total := r.contrib[a.Position]

		switch a.Kind {
		case PostBlind:
			// Blinds open the pot but are not decisions, so the big blind
			// keeps its option.
			if total > currentBet {
				currentBet = total
				r.opened = true
			}
			continue
		case Fold, Check, Call:
		case Bet, Raise, AllIn:
			if total > currentBet {
				increment := total - currentBet
				if currentBet == 0 || increment >= r.minRaise {
					r.minRaise = chips.Max(increment, r.minRaise)
					r.lastFull = n
				}
				currentBet = total
				r.opened = true
				r.lastAggr = n
			}
		}
		r.acted[a.Position] = n
	}
	return r
}

// currentBet is the highest street contribution among players still in the hand.
func (r bettingRound) currentBet(players []PlayerState) chips.Chips {
	var bet chips.Chips
	for _, p := range players {
		if p.Active {
			bet = chips.Max(bet, r.contrib[p.Position])
		}
	}
	return bet
}

// canRaise reports whether raising is open to pos: it has not acted yet this
// street, or a full raise has come in since it last did. A short all-in does
// not reopen the betting.
func (r bettingRound) canRaise(pos Position) bool {
	return r.acted[pos] == 0 || r.acted[pos] < r.lastFull
}

// needsAction reports whether pos still owes a decision this street.
func (r bettingRound) needsAction(pos Position, currentBet chips.Chips) bool {
	return r.acted[pos] == 0 || r.acted[pos] < r.lastAggr || r.contrib[pos] < currentBet
}

// AvailableActions returns the legal actions for the seat whose turn it is.
// Seats that are folded, all-in or absent get nothing. Fold is always offered,
// including when checking is free.
func AvailableActions(pos Position, street Street, actions []ActionRecord, players []PlayerState, bigBlind chips.Chips) []LegalAction {
	p, ok := findPlayer(players, pos)
	if !ok || !p.CanAct() || street == Showdown {
		return nil
	}

	r := analyzeStreet(actions, street, bigBlind)
	toCall := chips.Max(r.currentBet(players)-r.contrib[pos], 0)
	stack := p.Stack
	canRaise := r.canRaise(pos)

	legal := []LegalAction{{Kind: Fold}}

	if toCall == 0 {
		legal = append(legal, LegalAction{Kind: Check})
		if !canRaise {
			return legal
		}
		sizing := Raise
		if !r.opened {
			sizing = Bet
		}
		if stack > r.minRaise {
			legal = append(legal, LegalAction{Kind: sizing, Min: r.minRaise, Max: stack})
		} else {
			legal = append(legal, LegalAction{Kind: AllIn, Min: stack, Max: stack})
		}
		return legal
	}

	call := chips.Min(toCall, stack)
	legal = append(legal, LegalAction{Kind: Call, Min: call, Max: call})

	if stack > toCall && canRaise {
		legal = append(legal, LegalAction{
			Kind: Raise,
			Min:  chips.Min(toCall+r.minRaise, stack),
			Max:  stack,
		})
	}
	if stack <= toCall || (canRaise && stack <= toCall+r.minRaise) {
		legal = append(legal, LegalAction{Kind: AllIn, Min: stack, Max: stack})
	}
	return legal
}

// ToCall returns what pos must add to match the current street bet.
func ToCall(pos Position, street Street, actions []ActionRecord, players []PlayerState) chips.Chips {
	r := analyzeStreet(actions, street, 0)
	return chips.Max(r.currentBet(players)-r.contrib[pos], 0)
}

// PotRelative converts a pot multiple (0.5 for half pot, 1 for pot) into an
// incremental amount for a bet or raise: the call plus the multiple of the pot
// after calling, clamped to the legal bounds.
func PotRelative(legal LegalAction, pot, toCall chips.Chips, multiple decimal.Decimal) chips.Chips {
	amount := toCall + (pot + toCall).Scale(multiple)
	return chips.Min(chips.Max(amount, legal.Min), legal.Max)
}
