// Package game implements the betting, turn and pot engine for recording a
// live no-limit hold'em hand at a six seat table.
//
// The action log is the single source of truth. Every other field of a
// GameState (stacks, pot, whose turn it is, side pots) is a projection of the
// log, recomputed by one transition function each time an action is applied.
//
// # Basic Usage
//
// Start a hand, offer the seat to act its legal actions and record them:
//
//	s, err := game.StartNewHand(config.DefaultRules(),
//	    []game.Position{game.UTG, game.BTN, game.SB, game.BB}, game.BTN)
//	legal := s.AvailableActions() // fold, call, raise for UTG
//	state, err := s.AddAction(game.ActionRecord{
//	    Position: game.UTG, Kind: game.Raise, Size: game.Sized(chips.BB(3)),
//	})
//
// Rejected actions return an error wrapping ErrIllegalAction or ErrInvalidSize
// and leave the session untouched. Once the state is Terminal, Finalize
// settles the pots and returns the Hand record for persistence.
//
// # Architecture
//
//   - ledger.go: per-seat and per-street contributions, pot totals
//   - betting.go: legal actions and sizing bounds for the seat to act
//   - validate.go: turn, legality and sizing checks with reasons
//   - pot.go: main and side pots, pot awards
//   - hand.go: the Session state machine
//
// The ledger, legality and pot functions are pure and safe to call from any
// number of goroutines. A Session is single-writer.
package game
