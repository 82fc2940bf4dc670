package game

import "github.com/lox/handrecorder/internal/chips"

// PlayerState is one seat's standing in the hand.
type PlayerState struct {
	Position   Position
	Stack      chips.Chips // chips behind, not yet committed
	Active     bool        // false once folded
	AllIn      bool
	LastAction *ActionKind
}

// CanAct returns true if the player can still make decisions
func (p PlayerState) CanAct() bool {
	return p.Active && !p.AllIn && p.Stack > 0
}

func findPlayer(players []PlayerState, pos Position) (PlayerState, bool) {
	for _, p := range players {
		if p.Position == pos {
			return p, true
		}
	}
	return PlayerState{}, false
}

func clonePlayers(players []PlayerState) []PlayerState {
	out := make([]PlayerState, len(players))
	for i, p := range players {
		out[i] = p
		if p.LastAction != nil {
			k := *p.LastAction
			out[i].LastAction = &k
		}
	}
	return out
}
