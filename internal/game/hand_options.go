package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handrecorder/internal/chips"
	"github.com/lox/handrecorder/poker"
)

// HandOption configures a Session during creation.
type HandOption func(*handConfig)

// handConfig holds the optional settings for a new hand.
type handConfig struct {
	id        string
	stacks    map[Position]chips.Chips // overrides of the default stack
	clock     quartz.Clock
	logger    *log.Logger
	hero      Position
	heroCards poker.Hand
}

func defaultHandConfig() *handConfig {
	return &handConfig{
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
		hero:   NoPosition,
	}
}

// WithHandID sets the identifier recorded on the finished hand.
// A random UUID is used otherwise.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.id = id
	}
}

// WithStacks overrides starting stacks for some seats. Seats not listed start
// with the configured default stack.
func WithStacks(stacks map[Position]chips.Chips) HandOption {
	return func(c *handConfig) {
		if c.stacks == nil {
			c.stacks = make(map[Position]chips.Chips, len(stacks))
		}
		for pos, s := range stacks {
			c.stacks[pos] = s
		}
	}
}

// WithClock sets the clock used to timestamp actions.
func WithClock(clock quartz.Clock) HandOption {
	return func(c *handConfig) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// WithHero records which seat the recording player sat in and their hole cards.
func WithHero(pos Position, cards poker.Hand) HandOption {
	return func(c *handConfig) {
		c.hero = pos
		c.heroCards = cards
	}
}
