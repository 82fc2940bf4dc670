// Package script reads hand scripts: plain text descriptions of a hand, one
// directive or action per line, that can be replayed through a recorder.
//
//	# UTG opens, button calls, UTG gives up on the flop
//	id     example-1
//	seats  UTG MP CO BTN SB BB
//	stack  UTG 62.5
//	hero   BTN AsKd
//	UTG raise 3
//	MP f
//	CO f
//	BTN call
//	SB fold
//	BB fold
//	board  Ah7c2d
//	UTG bet 0.5pot
//	BTN raise 10
//	UTG fold
//
// Amounts are in big blinds and are the chips added by the action. A size
// ending in "pot" is a multiple of the pot. A showdown line ranks the
// remaining seats best first, with "|" between ranks and ties sharing one:
//
//	showdown BTN | SB BB
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/game"
	"github.com/lox/handrecorder/poker"
)

// Script is a parsed hand script.
type Script struct {
	ID        string
	Seats     []game.Position
	Stacks    map[game.Position]chips.Chips
	Hero      game.Position
	HeroCards poker.Hand
	Steps     []Step
}

// Step is one line after the header: an action, a board or a showdown.
type Step struct {
	Line int

	// Action
	Position game.Position
	Kind     game.ActionKind
	Amount   *chips.Chips
	PotShare *decimal.Decimal // set for "0.5pot" style sizes

	// Board
	Board    poker.Hand
	HasBoard bool

	// Showdown
	Ranking [][]game.Position
}

var kindAliases = map[string]game.ActionKind{
	"f":  game.Fold,
	"ch": game.Check,
	"x":  game.Check,
	"c":  game.Call,
	"b":  game.Bet,
	"r":  game.Raise,
	"a":  game.AllIn,
	"ai": game.AllIn,
}

// LineError ties a parse or replay failure to its script line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads a script from r.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{Hero: game.NoPosition}
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if err := s.parseLine(line, fields); err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(s.Seats) == 0 {
		return nil, fmt.Errorf("script has no seats line")
	}
	return s, nil
}

func (s *Script) parseLine(line int, fields []string) error {
	directive := strings.ToLower(fields[0])
	args := fields[1:]

	header := directive == "id" || directive == "seats" || directive == "stack" || directive == "hero"
	if header && len(s.Steps) > 0 {
		return fmt.Errorf("%s must come before the first action", directive)
	}

	switch directive {
	case "id":
		if len(args) != 1 {
			return fmt.Errorf("usage: id NAME")
		}
		s.ID = args[0]

	case "seats":
		if s.Seats != nil {
			return fmt.Errorf("seats given twice")
		}
		for _, a := range args {
			pos, err := parseSeat(a)
			if err != nil {
				return err
			}
			s.Seats = append(s.Seats, pos)
		}

	case "stack":
		if len(args) != 2 {
			return fmt.Errorf("usage: stack SEAT AMOUNT")
		}
		pos, err := parseSeat(args[0])
		if err != nil {
			return err
		}
		amount, err := chips.Parse(args[1])
		if err != nil {
			return err
		}
		if s.Stacks == nil {
			s.Stacks = make(map[game.Position]chips.Chips)
		}
		s.Stacks[pos] = amount

	case "hero":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: hero SEAT [CARDS]")
		}
		pos, err := parseSeat(args[0])
		if err != nil {
			return err
		}
		s.Hero = pos
		if len(args) == 2 {
			cards, err := poker.ParseHand(args[1])
			if err != nil {
				return err
			}
			s.HeroCards = cards
		}

	case "board":
		cards, err := poker.ParseHand(strings.Join(args, ""))
		if err != nil {
			return err
		}
		s.Steps = append(s.Steps, Step{Line: line, Board: cards, HasBoard: true})

	case "showdown":
		ranking, err := parseRanking(args)
		if err != nil {
			return err
		}
		s.Steps = append(s.Steps, Step{Line: line, Ranking: ranking})

	default:
		step, err := parseAction(fields)
		if err != nil {
			return err
		}
		step.Line = line
		s.Steps = append(s.Steps, step)
	}
	return nil
}

func parseSeat(s string) (game.Position, error) {
	pos, err := game.ParsePosition(s)
	if err != nil {
		return game.NoPosition, err
	}
	if !pos.Valid() {
		return game.NoPosition, fmt.Errorf("%q is not a seat", s)
	}
	return pos, nil
}

func parseAction(fields []string) (Step, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return Step{}, fmt.Errorf("want SEAT ACTION [AMOUNT], got %q", strings.Join(fields, " "))
	}
	pos, err := parseSeat(fields[0])
	if err != nil {
		return Step{}, err
	}

	kind, ok := kindAliases[strings.ToLower(fields[1])]
	if !ok {
		kind, err = game.ParseActionKind(fields[1])
		if err != nil {
			return Step{}, err
		}
	}
	if kind == game.PostBlind {
		return Step{}, fmt.Errorf("blinds are posted automatically")
	}

	step := Step{Position: pos, Kind: kind}
	if len(fields) == 3 {
		size := strings.ToLower(fields[2])
		if share, found := strings.CutSuffix(size, "pot"); found {
			d, err := decimal.NewFromString(share)
			if err != nil {
				return Step{}, fmt.Errorf("invalid pot multiple %q", fields[2])
			}
			step.PotShare = &d
		} else {
			amount, err := chips.Parse(size)
			if err != nil {
				return Step{}, err
			}
			step.Amount = &amount
		}
	}
	return step, nil
}

func parseRanking(args []string) ([][]game.Position, error) {
	var ranking [][]game.Position
	for _, group := range strings.Split(strings.Join(args, " "), "|") {
		var tier []game.Position
		for _, f := range strings.Fields(strings.ReplaceAll(group, ",", " ")) {
			pos, err := parseSeat(f)
			if err != nil {
				return nil, err
			}
			tier = append(tier, pos)
		}
		if len(tier) > 0 {
			ranking = append(ranking, tier)
		}
	}
	if len(ranking) == 0 {
		return nil, fmt.Errorf("showdown needs at least one seat")
	}
	return ranking, nil
}
