package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/game"
)

func TestPrintHandList(t *testing.T) {
	hands := []*game.Hand{
		{
			ID:        "h1",
			StartedAt: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
			Positions: []game.Position{game.SB, game.BB},
			Hero:      game.NoPosition,
			FoldedOut: true,
		},
		{
			ID:        "h2",
			StartedAt: time.Date(2026, 3, 14, 20, 5, 0, 0, time.UTC),
			Positions: []game.Position{game.BTN, game.SB, game.BB},
			Hero:      game.BTN,
			Results:   []game.SeatResult{{Position: game.BTN, Net: chips.MustParse("1.5")}},
		},
	}

	var buf bytes.Buffer
	printHandList(&buf, hands)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "h1")
	assert.Contains(t, lines[1], "fold")
	assert.Contains(t, lines[2], "BTN 1.5")
	assert.Contains(t, lines[2], "showdown")
}

func TestWinnersOf(t *testing.T) {
	winners := []game.PotWinner{
		{Pot: 0, Position: game.UTG, Amount: chips.BB(60)},
		{Pot: 1, Position: game.SB, Amount: chips.BB(30)},
		{Pot: 1, Position: game.BB, Amount: chips.BB(30)},
	}
	assert.Equal(t, "UTG wins 60", winnersOf(winners, 0))
	assert.Equal(t, "SB wins 30, BB wins 30", winnersOf(winners, 1))
	assert.Empty(t, winnersOf(winners, 2))
}
