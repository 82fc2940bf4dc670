package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/poker"
)

// GameState is a snapshot of a hand. Everything except the action log,
// the board and the dealt-in seats is derived from the log.
type GameState struct {
	Street          Street
	CurrentPosition Position
	Button          Position
	Positions       []Position    // dealt-in seats, table order
	Players         []PlayerState // table order
	Pot             chips.Chips
	LastBet         chips.Chips // highest contribution on the current street
	BigBlind        chips.Chips
	Actions         []ActionRecord
	Board           poker.Hand
	SidePots        []SidePot // filled once Terminal
	Terminal        bool
	FoldedOut       bool
}

// Clone returns a deep copy that shares no slices with s.
func (s GameState) Clone() GameState {
	out := s
	out.Positions = slices.Clone(s.Positions)
	out.Players = clonePlayers(s.Players)
	out.Actions = make([]ActionRecord, len(s.Actions))
	for i, a := range s.Actions {
		out.Actions[i] = a
		if a.Size != nil {
			out.Actions[i].Size = Sized(a.Size.Amount)
		}
	}
	if s.SidePots != nil {
		out.SidePots = make([]SidePot, len(s.SidePots))
		for i, p := range s.SidePots {
			out.SidePots[i] = SidePot{Amount: p.Amount, Eligible: slices.Clone(p.Eligible)}
		}
	}
	return out
}

// AvailableActions returns the legal actions for the seat to act.
func (s GameState) AvailableActions() []LegalAction {
	if s.Terminal {
		return nil
	}
	return AvailableActions(s.CurrentPosition, s.Street, s.Actions, s.Players, s.BigBlind)
}

// ToCall returns what the seat to act must add to continue.
func (s GameState) ToCall() chips.Chips {
	if s.Terminal {
		return 0
	}
	return ToCall(s.CurrentPosition, s.Street, s.Actions, s.Players)
}

// Player returns the state of pos.
func (s GameState) Player(pos Position) (PlayerState, bool) {
	return findPlayer(s.Players, pos)
}

// TotalContributions returns each seat's chips committed so far.
func (s GameState) TotalContributions() Contributions {
	return TotalContributions(s.Actions)
}

// CurrentSidePots splits the chips committed so far into pots.
func (s GameState) CurrentSidePots() []SidePot {
	return SidePots(s.Players, s.TotalContributions())
}

// PotBeforeStreet returns the pot as it stood when the current street began.
func (s GameState) PotBeforeStreet() chips.Chips {
	return PotBeforeStreet(s.Actions, s.Street)
}

// PotIncreaseThisStreet returns the chips added on the current street.
func (s GameState) PotIncreaseThisStreet() chips.Chips {
	return PotIncreaseThisStreet(s.Actions, s.Street)
}

func (s *GameState) playerIndex(pos Position) int {
	for i, p := range s.Players {
		if p.Position == pos {
			return i
		}
	}
	return -1
}

func (s *GameState) canAct(pos Position) bool {
	i := s.playerIndex(pos)
	return i >= 0 && s.Players[i].CanAct()
}

// apply appends a validated, normalized record and recomputes every derived
// field. It is the only place state changes.
func (s *GameState) apply(rec ActionRecord) error {
	i := s.playerIndex(rec.Position)
	if i < 0 {
		return &InvariantError{Action: rec, Detail: "no such seat in hand"}
	}
	p := &s.Players[i]
	amount := rec.Amount()
	if amount < 0 || amount > p.Stack {
		return &InvariantError{Action: rec, Detail: fmt.Sprintf("stack %s cannot cover %s", p.Stack, amount)}
	}

	s.Actions = append(s.Actions, rec)
	p.Stack -= amount
	kind := rec.Kind
	p.LastAction = &kind
	if rec.Kind == Fold {
		p.Active = false
	}
	if p.Stack == 0 && amount > 0 {
		p.AllIn = true
	}

	s.Pot = CurrentPot(s.Actions)
	s.LastBet = StreetContributions(s.Actions, s.Street).Max()

	if rec.Kind != PostBlind {
		s.advance(rec.Position)
	}
	return nil
}

// advance moves the turn on from the seat that just acted, closing the street
// when nobody owes a decision.
func (s *GameState) advance(from Position) {
	live := 0
	var actors []Position
	for _, p := range s.Players {
		if p.Active {
			live++
		}
		if p.CanAct() {
			actors = append(actors, p.Position)
		}
	}
	if live <= 1 {
		s.finish(true)
		return
	}

	r := analyzeStreet(s.Actions, s.Street, s.BigBlind)
	bet := r.currentBet(s.Players)
	owes := func(pos Position) bool {
		return s.canAct(pos) && r.needsAction(pos, bet)
	}

	var closed bool
	switch len(actors) {
	case 0:
		closed = true
	case 1:
		// Everyone else is all-in: the last seat only acts when facing a bet.
		closed = r.contrib[actors[0]] >= bet
	default:
		closed = !slices.ContainsFunc(actors, owes)
	}

	if !closed {
		order := ActionOrder(s.Street, s.Positions)
		if from == NoPosition {
			s.CurrentPosition = firstInOrder(order, owes)
		} else {
			s.CurrentPosition = nextInOrder(order, from, owes)
		}
		return
	}
	s.closeStreet()
}

// closeStreet moves to the next street, running the board out when fewer
// than two seats can still bet.
func (s *GameState) closeStreet() {
	for {
		if s.Street == River {
			s.Street = Showdown
			s.LastBet = 0
			s.finish(false)
			return
		}
		s.Street++
		s.LastBet = 0

		order := ActionOrder(s.Street, s.Positions)
		actors := 0
		for _, pos := range order {
			if s.canAct(pos) {
				actors++
			}
		}
		if actors < 2 {
			continue
		}
		s.CurrentPosition = firstInOrder(order, s.canAct)
		return
	}
}

func (s *GameState) finish(foldedOut bool) {
	s.Terminal = true
	s.FoldedOut = foldedOut
	s.CurrentPosition = NoPosition
	s.SidePots = SidePots(s.Players, TotalContributions(s.Actions))
}

// invariantViolation returns a description of the first broken invariant, or "".
func (s GameState) invariantViolation(starting Contributions) string {
	contrib := TotalContributions(s.Actions)
	for _, p := range s.Players {
		if p.Stack < 0 {
			return fmt.Sprintf("%s has negative stack %s", p.Position, p.Stack)
		}
		if p.AllIn && p.Stack != 0 {
			return fmt.Sprintf("%s is all-in with %s behind", p.Position, p.Stack)
		}
		if p.Stack+contrib[p.Position] != starting[p.Position] {
			return fmt.Sprintf("%s chips not conserved: %s behind + %s in != %s", p.Position, p.Stack, contrib[p.Position], starting[p.Position])
		}
	}
	if s.Pot != contrib.Sum() {
		return fmt.Sprintf("pot %s does not match ledger %s", s.Pot, contrib.Sum())
	}
	if s.Street != Showdown && s.LastBet != StreetContributions(s.Actions, s.Street).Max() {
		return fmt.Sprintf("last bet %s does not match street ledger", s.LastBet)
	}

	if !s.Terminal {
		if !s.canAct(s.CurrentPosition) {
			return fmt.Sprintf("turn passed to %s which cannot act", s.CurrentPosition)
		}
		return ""
	}

	var total chips.Chips
	for i, pot := range s.SidePots {
		total += pot.Amount
		if i > 0 && !containsAll(s.SidePots[i-1].Eligible, pot.Eligible) {
			return fmt.Sprintf("side pot %d eligibility is not nested", i)
		}
	}
	if total != s.Pot {
		return fmt.Sprintf("side pots total %s, pot is %s", total, s.Pot)
	}
	return ""
}

func containsAll(set, sub []Position) bool {
	for _, p := range sub {
		if !slices.Contains(set, p) {
			return false
		}
	}
	return true
}

// Session owns the authoritative state of one hand. It is single-writer:
// callers must serialize AddAction, SetBoard and Finalize.
type Session struct {
	id        string
	rules     config.Rules
	starting  Contributions
	startedAt time.Time
	hero      Position
	heroCards poker.Hand
	state     GameState
	clock     quartz.Clock
	logger    *log.Logger
	finalized bool
	err       error // latched invariant failure
}

// StartNewHand validates the seating and stacks, posts the blinds and
// returns a session waiting on the first seat to act.
func StartNewHand(rules config.Rules, positions []Position, button Position, opts ...HandOption) (*Session, error) {
	cfg := defaultHandConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	seated, err := seating(positions)
	if err != nil {
		return nil, err
	}
	if want := ButtonFor(seated); button != want {
		return nil, fmt.Errorf("%w: button must be %s for seats %v, got %s", ErrConfiguration, want, seated, button)
	}

	var starting Contributions
	for _, pos := range seated {
		starting[pos] = rules.DefaultStack
	}
	for pos, stack := range cfg.stacks {
		if !slices.Contains(seated, pos) {
			return nil, fmt.Errorf("%w: stack given for %s which is not dealt in", ErrConfiguration, pos)
		}
		if err := rules.ValidateStack(stack); err != nil {
			return nil, fmt.Errorf("%s: %w", pos, err)
		}
		starting[pos] = stack
	}

	if cfg.hero != NoPosition {
		if !slices.Contains(seated, cfg.hero) {
			return nil, fmt.Errorf("%w: hero seat %s is not dealt in", ErrConfiguration, cfg.hero)
		}
		if n := cfg.heroCards.CountCards(); n != 0 && n != 2 {
			return nil, fmt.Errorf("%w: hero needs two hole cards, got %d", ErrConfiguration, n)
		}
	}

	id := cfg.id
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		id:        id,
		rules:     rules,
		starting:  starting,
		startedAt: cfg.clock.Now(),
		hero:      cfg.hero,
		heroCards: cfg.heroCards,
		clock:     cfg.clock,
		logger:    cfg.logger.With("hand", id),
	}

	state := GameState{
		Street:          Preflop,
		CurrentPosition: NoPosition,
		Button:          button,
		Positions:       seated,
		BigBlind:        rules.Blinds.Big,
	}
	for _, pos := range seated {
		state.Players = append(state.Players, PlayerState{Position: pos, Stack: starting[pos], Active: true})
	}

	for _, blind := range []SeatStack{{SB, rules.Blinds.Small}, {BB, rules.Blinds.Big}} {
		p, _ := state.Player(blind.Position)
		rec := ActionRecord{
			Position:  blind.Position,
			Kind:      PostBlind,
			Size:      Sized(chips.Min(blind.Stack, p.Stack)),
			Street:    Preflop,
			Timestamp: s.startedAt,
		}
		if err := state.apply(rec); err != nil {
			return nil, err
		}
	}
	state.advance(NoPosition)

	if detail := state.invariantViolation(starting); detail != "" {
		return nil, &InvariantError{Action: state.Actions[len(state.Actions)-1], Detail: detail}
	}
	s.state = state

	s.logger.Info("hand started", "seats", len(seated), "button", button, "first", state.CurrentPosition)
	return s, nil
}

// seating checks the dealt-in seats and returns them in table order.
func seating(positions []Position) ([]Position, error) {
	if len(positions) < 2 || len(positions) > NumPositions {
		return nil, fmt.Errorf("%w: need 2 to %d seats, got %d", ErrConfiguration, NumPositions, len(positions))
	}
	var in [NumPositions]bool
	for _, p := range positions {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: invalid seat %d", ErrConfiguration, int(p))
		}
		if in[p] {
			return nil, fmt.Errorf("%w: seat %s listed twice", ErrConfiguration, p)
		}
		in[p] = true
	}
	if !in[SB] || !in[BB] {
		return nil, fmt.Errorf("%w: both blinds must be dealt in", ErrConfiguration)
	}

	seated := make([]Position, 0, len(positions))
	for _, p := range AllPositions {
		if in[p] {
			seated = append(seated, p)
		}
	}
	return seated, nil
}

// Replay starts a hand and applies every non-blind record of actions in
// order. Blind records are skipped since StartNewHand posts them.
func Replay(rules config.Rules, positions []Position, button Position, actions []ActionRecord, opts ...HandOption) (*Session, error) {
	s, err := StartNewHand(rules, positions, button, opts...)
	if err != nil {
		return nil, err
	}
	for i, rec := range actions {
		if rec.Kind == PostBlind {
			continue
		}
		if _, err := s.AddAction(rec); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, rec, err)
		}
	}
	return s, nil
}

// ID returns the hand identifier.
func (s *Session) ID() string {
	return s.id
}

// Rules returns the ruleset the hand was started with.
func (s *Session) Rules() config.Rules {
	return s.rules
}

// State returns a copy of the current state.
func (s *Session) State() GameState {
	return s.state.Clone()
}

// Err returns the latched invariant failure, if any.
func (s *Session) Err() error {
	return s.err
}

// AvailableActions returns the legal actions for the seat to act.
func (s *Session) AvailableActions() []LegalAction {
	return s.state.AvailableActions()
}

// SelectablePositions returns the seats that may record the next action.
func (s *Session) SelectablePositions() []Position {
	return SelectablePositions(s.state)
}

// Validate checks rec without applying it.
func (s *Session) Validate(rec ActionRecord) Validation {
	return ValidateAction(rec, s.state)
}

// AddAction validates rec and applies it. On any error the state is unchanged.
// A zero Timestamp is filled from the session clock.
func (s *Session) AddAction(rec ActionRecord) (GameState, error) {
	if s.err != nil {
		return s.State(), s.err
	}
	if s.finalized {
		return s.State(), ErrHandComplete
	}

	v, legal := validate(rec, s.state)
	if !v.Valid {
		s.logger.Debug("action rejected", "position", rec.Position, "action", rec.Kind, "reason", v.Reason)
		return s.State(), v.Err
	}

	rec = normalize(rec, legal)
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.clock.Now()
	}

	next := s.state.Clone()
	if err := next.apply(rec); err != nil {
		return s.State(), s.fail(err)
	}
	if detail := next.invariantViolation(s.starting); detail != "" {
		return s.State(), s.fail(&InvariantError{Action: rec, Detail: detail})
	}
	s.state = next

	s.logger.Debug("action applied",
		"position", rec.Position,
		"action", rec.Kind,
		"amount", rec.Amount(),
		"street", next.Street,
		"pot", next.Pot,
		"next", next.CurrentPosition)
	if next.Terminal {
		s.logger.Info("hand complete", "pot", next.Pot, "folded_out", next.FoldedOut, "pots", len(next.SidePots))
	}
	return s.State(), nil
}

func (s *Session) fail(err error) error {
	s.err = err
	s.logger.Error("engine invariant broken", "err", err)
	return err
}

// SetBoard records the community cards. The board may not show more cards
// than the street reached and may not reuse the hero's hole cards.
func (s *Session) SetBoard(board poker.Hand) error {
	if s.err != nil {
		return s.err
	}
	if s.finalized {
		return ErrHandComplete
	}
	n := board.CountCards()
	if n != 0 && n < 3 {
		return fmt.Errorf("%w: a board has 0 or 3-5 cards, got %d", ErrIllegalAction, n)
	}
	if limit := boardCards[s.state.Street]; n > limit {
		return fmt.Errorf("%w: %s shows at most %d board cards, got %d", ErrIllegalAction, s.state.Street, limit, n)
	}
	if board.Overlaps(s.heroCards) {
		return fmt.Errorf("%w: board %s repeats a hero card", ErrIllegalAction, board)
	}
	s.state.Board = board
	return nil
}

// Finalize settles a terminal hand and returns the record for persistence.
// ranking lists the seats reaching showdown from best hand to worst, with
// tied seats sharing an entry; it is ignored when everyone else folded.
// After Finalize the session rejects further changes.
func (s *Session) Finalize(ranking [][]Position) (*Hand, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.finalized {
		return nil, ErrHandComplete
	}
	if !s.state.Terminal {
		return nil, fmt.Errorf("%w: hand still in progress on %s", ErrIllegalAction, s.state.Street)
	}

	if s.state.FoldedOut {
		ranking = nil
		for _, p := range s.state.Players {
			if p.Active {
				ranking = append(ranking, []Position{p.Position})
			}
		}
	}

	order := ActionOrder(Flop, s.state.Positions)
	winners, err := AwardPots(s.state.SidePots, ranking, order)
	if err != nil {
		return nil, err
	}

	contrib := s.state.TotalContributions()
	won := winnings(winners)
	var net chips.Chips
	hand := &Hand{
		ID:          s.id,
		StartedAt:   s.startedAt,
		CompletedAt: s.clock.Now(),
		Blinds:      s.rules.Blinds,
		Positions:   slices.Clone(s.state.Positions),
		Button:      s.state.Button,
		Hero:        s.hero,
		HeroCards:   s.heroCards,
		Board:       s.state.Board,
		FoldedOut:   s.state.FoldedOut,
		SidePots:    s.State().SidePots,
		Winners:     winners,
		Actions:     s.State().Actions,
	}
	for _, pos := range s.state.Positions {
		hand.StartingStacks = append(hand.StartingStacks, SeatStack{Position: pos, Stack: s.starting[pos]})
		result := won[pos] - contrib[pos]
		hand.Results = append(hand.Results, SeatResult{Position: pos, Net: result})
		net += result
	}
	if net != 0 {
		return nil, s.fail(&InvariantError{Action: s.state.Actions[len(s.state.Actions)-1], Detail: fmt.Sprintf("results sum to %s", net)})
	}

	s.finalized = true
	s.logger.Info("hand finalized", "pots", len(hand.SidePots), "winners", len(winners))
	return hand, nil
}
