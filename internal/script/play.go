package script

import (
	"context"
	"fmt"

	"github.com/lox/handrecorder/internal/game"
	"github.com/lox/handrecorder/internal/recorder"
)

// Play starts the script's hand on rec, applies every step and finishes the
// hand, saving it to the recorder's store. On any failure the hand is
// abandoned and the error names the script line. A hand that cannot be
// settled or saved is reported against the showdown line, or the last line
// when there is none.
func Play(ctx context.Context, rec *recorder.Recorder, s *Script) (*game.Hand, error) {
	var opts []game.HandOption
	if s.ID != "" {
		opts = append(opts, game.WithHandID(s.ID))
	}
	if len(s.Stacks) > 0 {
		opts = append(opts, game.WithStacks(s.Stacks))
	}
	if s.Hero != game.NoPosition {
		opts = append(opts, game.WithHero(s.Hero, s.HeroCards))
	}

	state, err := rec.Start(s.Seats, opts...)
	if err != nil {
		return nil, err
	}

	var ranking [][]game.Position
	var showdownLine, lastLine int
	for _, step := range s.Steps {
		lastLine = step.Line
		switch {
		case step.HasBoard:
			err = rec.SetBoard(step.Board)
		case step.Ranking != nil:
			ranking = step.Ranking
			showdownLine = step.Line
		default:
			var action game.ActionRecord
			action, err = step.Record(state)
			if err == nil {
				state, err = rec.AddAction(action)
			}
		}
		if err != nil {
			_ = rec.Abandon()
			return nil, &LineError{Line: step.Line, Err: err}
		}
	}

	if !state.Terminal {
		_ = rec.Abandon()
		return nil, fmt.Errorf("script ends on %s with %s to act", state.Street, state.CurrentPosition)
	}

	hand, err := rec.Finish(ctx, ranking)
	if err != nil {
		// A hand left on the recorder would block every later script.
		_ = rec.Abandon()
		if showdownLine == 0 {
			showdownLine = lastLine
		}
		return nil, &LineError{Line: showdownLine, Err: err}
	}
	return hand, nil
}

// Record turns an action step into a record for state, resolving pot
// multiples against the legal sizing bounds.
func (s Step) Record(state game.GameState) (game.ActionRecord, error) {
	rec := game.ActionRecord{Position: s.Position, Kind: s.Kind, Street: state.Street}
	switch {
	case s.Amount != nil:
		rec.Size = game.Sized(*s.Amount)
	case s.PotShare != nil:
		if s.Position != state.CurrentPosition {
			return rec, fmt.Errorf("%w: %s is to act, not %s", game.ErrIllegalAction, state.CurrentPosition, s.Position)
		}
		legal, ok := game.FindLegal(state.AvailableActions(), s.Kind)
		if !ok || legal.Max == 0 {
			return rec, fmt.Errorf("%w: %s cannot be sized against the pot here", game.ErrIllegalAction, s.Kind)
		}
		rec.Size = game.Sized(game.PotRelative(legal, state.Pot, state.ToCall(), *s.PotShare))
	}
	return rec, nil
}
