// Package recorder hosts the hand being recorded at the table. It owns the
// single game.Session, serialises every change to it, publishes snapshots for
// readers and saves the finished hand.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/internal/game"
	"github.com/lox/handrecorder/internal/handstore"
	"github.com/lox/handrecorder/poker"
)

var (
	// ErrBusy is returned when a change arrives while another is being applied.
	ErrBusy = errors.New("recorder busy")
	// ErrNoHand is returned when there is no hand to act on.
	ErrNoHand = errors.New("no hand in progress")
	// ErrHandInProgress is returned by Start while a hand is unfinished.
	ErrHandInProgress = errors.New("hand already in progress")
)

// Recorder runs one hand at a time. Writers that overlap are rejected with
// ErrBusy rather than queued; State and AvailableActions never block.
type Recorder struct {
	rules  config.Rules
	store  handstore.Store
	clock  quartz.Clock
	logger *log.Logger

	mu      sync.Mutex
	session *game.Session
	unsaved *game.Hand // finalized but not yet persisted

	snapshot atomic.Pointer[game.GameState]
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock sets the clock used for action timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(r *Recorder) {
		r.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// New returns a recorder that saves finished hands to store.
func New(rules config.Rules, store handstore.Store, opts ...Option) *Recorder {
	r := &Recorder{
		rules:  rules,
		store:  store,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lock takes the writer lock without waiting.
func (r *Recorder) lock() error {
	if !r.mu.TryLock() {
		return ErrBusy
	}
	return nil
}

func (r *Recorder) publish() {
	if r.session == nil {
		r.snapshot.Store(nil)
		return
	}
	state := r.session.State()
	r.snapshot.Store(&state)
}

// Start deals a new hand to positions with the button where the seating puts
// it. Extra options (stacks, hero, id) are passed to the session.
func (r *Recorder) Start(positions []game.Position, opts ...game.HandOption) (game.GameState, error) {
	if err := r.lock(); err != nil {
		return game.GameState{}, err
	}
	defer r.mu.Unlock()

	if r.unsaved != nil {
		return game.GameState{}, fmt.Errorf("%w: hand %s is not saved", ErrHandInProgress, r.unsaved.ID)
	}
	if r.session != nil {
		return game.GameState{}, fmt.Errorf("%w: finish or abandon hand %s first", ErrHandInProgress, r.session.ID())
	}

	opts = append(opts, game.WithClock(r.clock), game.WithLogger(r.logger))
	session, err := game.StartNewHand(r.rules, positions, game.ButtonFor(positions), opts...)
	if err != nil {
		return game.GameState{}, err
	}
	r.session = session
	r.publish()
	return session.State(), nil
}

// AddAction records an action for the seat to act.
func (r *Recorder) AddAction(rec game.ActionRecord) (game.GameState, error) {
	if err := r.lock(); err != nil {
		return game.GameState{}, err
	}
	defer r.mu.Unlock()

	if r.session == nil {
		return game.GameState{}, ErrNoHand
	}
	state, err := r.session.AddAction(rec)
	if err != nil {
		return state, err
	}
	r.publish()
	return state, nil
}

// SetBoard records the community cards.
func (r *Recorder) SetBoard(board poker.Hand) error {
	if err := r.lock(); err != nil {
		return err
	}
	defer r.mu.Unlock()

	if r.session == nil {
		return ErrNoHand
	}
	if err := r.session.SetBoard(board); err != nil {
		return err
	}
	r.publish()
	return nil
}

// Finish settles the terminal hand and saves it. ranking is only needed at
// showdown (see game.Session.Finalize). If saving fails the hand is kept and
// a later Finish retries the save.
func (r *Recorder) Finish(ctx context.Context, ranking [][]game.Position) (*game.Hand, error) {
	if err := r.lock(); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	if r.session == nil {
		return nil, ErrNoHand
	}
	if r.unsaved == nil {
		hand, err := r.session.Finalize(ranking)
		if err != nil {
			return nil, err
		}
		r.unsaved = hand
	}

	hand := r.unsaved
	if err := r.store.Save(ctx, hand); err != nil {
		r.logger.Error("failed to save hand", "hand", hand.ID, "err", err)
		return hand, fmt.Errorf("save hand %s: %w", hand.ID, err)
	}
	r.logger.Info("hand saved", "hand", hand.ID, "pot", hand.TotalPot())

	r.unsaved = nil
	r.session = nil
	r.publish()
	return hand, nil
}

// Abandon drops the current hand without saving it.
func (r *Recorder) Abandon() error {
	if err := r.lock(); err != nil {
		return err
	}
	defer r.mu.Unlock()

	if r.session == nil {
		return ErrNoHand
	}
	r.logger.Warn("hand abandoned", "hand", r.session.ID(), "actions", len(r.session.State().Actions))
	r.session = nil
	r.unsaved = nil
	r.publish()
	return nil
}

// State returns a copy of the latest published state, or false when no hand
// is running. Callers may modify the copy freely.
func (r *Recorder) State() (game.GameState, bool) {
	state := r.snapshot.Load()
	if state == nil {
		return game.GameState{}, false
	}
	return state.Clone(), true
}

// AvailableActions returns the legal actions in the latest published state.
func (r *Recorder) AvailableActions() []game.LegalAction {
	state, ok := r.State()
	if !ok {
		return nil
	}
	return state.AvailableActions()
}

// Store returns the store finished hands are saved to.
func (r *Recorder) Store() handstore.Store {
	return r.store
}
