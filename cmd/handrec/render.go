package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/game"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	streetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// printHand writes a readable summary of hand: seats, action by street,
// pots and results.
func printHand(w io.Writer, hand *game.Hand) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Hand %s", hand.ID)))
	fmt.Fprintf(w, "%s  blinds %s/%s  button %s\n",
		dimStyle.Render(hand.StartedAt.Format(time.DateTime)),
		hand.Blinds.Small, hand.Blinds.Big, hand.Button)

	for _, s := range hand.StartingStacks {
		line := fmt.Sprintf("  %-4s %s", s.Position, s.Stack)
		if s.Position == hand.Hero {
			line += "  hero"
			if hand.HeroCards != 0 {
				line += " " + cardStyle.Render(hand.HeroCards.String())
			}
		}
		fmt.Fprintln(w, line)
	}

	street := game.Street(-1)
	for _, a := range hand.Actions {
		if a.Street != street {
			street = a.Street
			fmt.Fprintln(w, streetStyle.Render(strings.ToUpper(street.String())))
		}
		fmt.Fprintf(w, "  %s\n", a)
	}

	if hand.Board != 0 {
		fmt.Fprintf(w, "board %s\n", cardStyle.Render(hand.Board.String()))
	}
	if hand.FoldedOut {
		fmt.Fprintln(w, dimStyle.Render("  everyone else folded"))
	}
	for i, pot := range hand.SidePots {
		name := "main pot"
		if i > 0 {
			name = fmt.Sprintf("side pot %d", i)
		}
		fmt.Fprintf(w, "%s %s  %s\n", name, pot.Amount, winnersOf(hand.Winners, i))
	}

	fmt.Fprintln(w, headerStyle.Render("Results"))
	for _, r := range hand.Results {
		fmt.Fprintf(w, "  %-4s %s\n", r.Position, formatNet(r.Net))
	}
	fmt.Fprintln(w)
}

func winnersOf(winners []game.PotWinner, pot int) string {
	var parts []string
	for _, w := range winners {
		if w.Pot == pot {
			parts = append(parts, fmt.Sprintf("%s wins %s", w.Position, w.Amount))
		}
	}
	return strings.Join(parts, ", ")
}

func formatNet(net chips.Chips) string {
	switch {
	case net > 0:
		return winStyle.Render("+" + net.String())
	case net < 0:
		return lossStyle.Render(net.String())
	default:
		return net.String()
	}
}

// printHandList writes one aligned row per hand.
func printHandList(w io.Writer, hands []*game.Hand) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSEATS\tPOT\tHERO\tEND")
	for _, h := range hands {
		hero := "-"
		if h.Hero.Valid() {
			hero = fmt.Sprintf("%s %s", h.Hero, h.Result(h.Hero))
		}
		end := "showdown"
		if h.FoldedOut {
			end = "fold"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			h.ID, h.StartedAt.Format(time.DateTime), len(h.Positions), h.TotalPot(), hero, end)
	}
	tw.Flush()
}
