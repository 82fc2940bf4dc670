package handstore

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/internal/game"
	"github.com/lox/handrecorder/poker"
)

// variant is the PHH code for no-limit Texas hold'em.
const variant = "NT"

// handRecord is the on-disk TOML layout of a finished hand. Seat-indexed
// arrays (starting_stacks, results) follow the order of seats.
type handRecord struct {
	Variant        string          `toml:"variant"`
	HandID         string          `toml:"hand"`
	StartedAt      time.Time       `toml:"started_at"`
	CompletedAt    time.Time       `toml:"completed_at"`
	Blinds         []chips.Chips   `toml:"blinds_or_straddles"`
	Seats          []game.Position `toml:"seats"`
	Button         game.Position   `toml:"button"`
	Hero           game.Position   `toml:"hero"`
	HeroCards      poker.Hand      `toml:"hero_cards"`
	Board          poker.Hand      `toml:"board"`
	StartingStacks []chips.Chips   `toml:"starting_stacks"`
	Results        []chips.Chips   `toml:"results"`
	FoldedOut      bool            `toml:"folded_out"`
	Actions        []actionEntry   `toml:"actions"`
	Pots           []potEntry      `toml:"pots"`
	Winners        []winnerEntry   `toml:"winners"`
}

type actionEntry struct {
	Street   game.Street     `toml:"street"`
	Position game.Position   `toml:"position"`
	Action   game.ActionKind `toml:"action"`
	Amount   *chips.Chips    `toml:"amount,omitempty"`
	Time     time.Time       `toml:"time"`
}

type potEntry struct {
	Amount   chips.Chips     `toml:"amount"`
	Eligible []game.Position `toml:"eligible"`
}

type winnerEntry struct {
	Pot      int           `toml:"pot"`
	Position game.Position `toml:"position"`
	Amount   chips.Chips   `toml:"amount"`
}

func toRecord(h *game.Hand) *handRecord {
	rec := &handRecord{
		Variant:     variant,
		HandID:      h.ID,
		StartedAt:   h.StartedAt,
		CompletedAt: h.CompletedAt,
		Blinds:      []chips.Chips{h.Blinds.Small, h.Blinds.Big},
		Seats:       h.Positions,
		Button:      h.Button,
		Hero:        h.Hero,
		HeroCards:   h.HeroCards,
		Board:       h.Board,
		FoldedOut:   h.FoldedOut,
	}

	for _, pos := range h.Positions {
		var stack chips.Chips
		for _, s := range h.StartingStacks {
			if s.Position == pos {
				stack = s.Stack
			}
		}
		rec.StartingStacks = append(rec.StartingStacks, stack)
		rec.Results = append(rec.Results, h.Result(pos))
	}

	for _, a := range h.Actions {
		entry := actionEntry{Street: a.Street, Position: a.Position, Action: a.Kind, Time: a.Timestamp}
		if a.Size != nil {
			amount := a.Size.Amount
			entry.Amount = &amount
		}
		rec.Actions = append(rec.Actions, entry)
	}
	for _, p := range h.SidePots {
		rec.Pots = append(rec.Pots, potEntry{Amount: p.Amount, Eligible: p.Eligible})
	}
	for _, w := range h.Winners {
		rec.Winners = append(rec.Winners, winnerEntry{Pot: w.Pot, Position: w.Position, Amount: w.Amount})
	}
	return rec
}

func (rec *handRecord) toHand() (*game.Hand, error) {
	if rec.Variant != variant {
		return nil, fmt.Errorf("handstore: unsupported variant %q", rec.Variant)
	}
	if rec.HandID == "" {
		return nil, fmt.Errorf("handstore: record has no hand id")
	}
	if len(rec.Blinds) != 2 {
		return nil, fmt.Errorf("handstore: hand %s: want 2 blinds, got %d", rec.HandID, len(rec.Blinds))
	}
	if len(rec.StartingStacks) != len(rec.Seats) || len(rec.Results) != len(rec.Seats) {
		return nil, fmt.Errorf("handstore: hand %s: stacks and results must match %d seats", rec.HandID, len(rec.Seats))
	}

	h := &game.Hand{
		ID:          rec.HandID,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
		Blinds:      config.Blinds{Small: rec.Blinds[0], Big: rec.Blinds[1]},
		Positions:   rec.Seats,
		Button:      rec.Button,
		Hero:        rec.Hero,
		HeroCards:   rec.HeroCards,
		Board:       rec.Board,
		FoldedOut:   rec.FoldedOut,
	}
	for i, pos := range rec.Seats {
		h.StartingStacks = append(h.StartingStacks, game.SeatStack{Position: pos, Stack: rec.StartingStacks[i]})
		h.Results = append(h.Results, game.SeatResult{Position: pos, Net: rec.Results[i]})
	}
	for _, a := range rec.Actions {
		action := game.ActionRecord{Position: a.Position, Kind: a.Action, Street: a.Street, Timestamp: a.Time}
		if a.Amount != nil {
			action.Size = game.Sized(*a.Amount)
		}
		h.Actions = append(h.Actions, action)
	}
	for _, p := range rec.Pots {
		h.SidePots = append(h.SidePots, game.SidePot{Amount: p.Amount, Eligible: p.Eligible})
	}
	for _, w := range rec.Winners {
		h.Winners = append(h.Winners, game.PotWinner{Pot: w.Pot, Position: w.Position, Amount: w.Amount})
	}
	return h, nil
}

// Encode writes the hand to w as TOML.
func Encode(w io.Writer, hand *game.Hand) error {
	if hand == nil {
		return fmt.Errorf("handstore: hand is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(toRecord(hand))
}

// Marshal encodes the hand and returns the bytes.
func Marshal(hand *game.Hand) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one TOML hand from r.
func Decode(r io.Reader) (*game.Hand, error) {
	var rec handRecord
	if _, err := toml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("handstore: decode: %w", err)
	}
	return rec.toHand()
}

// Unmarshal decodes a hand from data.
func Unmarshal(data []byte) (*game.Hand, error) {
	return Decode(bytes.NewReader(data))
}
