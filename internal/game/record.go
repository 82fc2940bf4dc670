package game

import (
	"time"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/poker"
)

// SeatStack pairs a seat with a chip amount.
type SeatStack struct {
	Position Position
	Stack    chips.Chips
}

// SeatResult is a seat's net win or loss for the hand.
type SeatResult struct {
	Position Position
	Net      chips.Chips
}

// Hand is a finished hand as handed to persistence.
type Hand struct {
	ID             string
	StartedAt      time.Time
	CompletedAt    time.Time
	Blinds         config.Blinds
	Positions      []Position
	Button         Position
	Hero           Position
	HeroCards      poker.Hand
	StartingStacks []SeatStack
	Actions        []ActionRecord
	Board          poker.Hand
	FoldedOut      bool
	SidePots       []SidePot
	Winners        []PotWinner
	Results        []SeatResult
}

// TotalPot returns the chips contested in the hand.
func (h *Hand) TotalPot() chips.Chips {
	return CurrentPot(h.Actions)
}

// Result returns the net result for pos.
func (h *Hand) Result(pos Position) chips.Chips {
	for _, r := range h.Results {
		if r.Position == pos {
			return r.Net
		}
	}
	return 0
}
