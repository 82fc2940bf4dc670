// Package poker provides compact card and card-set types for recording the
// board and hole cards of a hand. Cards are single bits in a uint64 so sets can
// be combined and checked for duplicates with bitwise operations.
package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card represents a single card as one bit in a uint64.
// Layout: [13 spades][13 hearts][13 diamonds][13 clubs]
type Card uint64

// Hand is a set of cards, one bit per card.
type Hand uint64

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard creates a card from rank and suit.
func NewCard(rank, suit uint8) Card {
	offset := suit*13 + rank
	return Card(1) << offset
}

// bitPosition returns which bit this card occupies (0-51), or 255 if invalid.
func (c Card) bitPosition() uint8 {
	if c == 0 || bits.OnesCount64(uint64(c)) != 1 {
		return 255
	}
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Rank returns the rank of the card (0-12)
func (c Card) Rank() uint8 {
	pos := c.bitPosition()
	if pos == 255 {
		return 255
	}
	return pos % 13
}

// Suit returns the suit of the card (0-3)
func (c Card) Suit() uint8 {
	pos := c.bitPosition()
	if pos == 255 {
		return 255
	}
	return pos / 13
}

// String returns the string representation (e.g., "As", "Kh")
func (c Card) String() string {
	rank, suit := c.Rank(), c.Suit()
	if rank > 12 || suit > 3 {
		return "??"
	}
	return string(rankChars[rank]) + string(suitChars[suit])
}

// ParseCard parses a string like "As" into a Card
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card string: %s", s)
	}

	rank := strings.IndexByte(rankChars, upper(s[0]))
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank: %c", s[0])
	}
	suit := strings.IndexByte(suitChars, lower(s[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(uint8(rank), uint8(suit)), nil
}

// NewHand creates a hand from multiple cards
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// ParseHand parses concatenated or space separated cards, e.g. "AsKd" or
// "Ah 7c 2d". Duplicate cards are rejected.
func ParseHand(s string) (Hand, error) {
	compact := strings.Join(strings.Fields(s), "")
	if len(compact)%2 != 0 {
		return 0, fmt.Errorf("invalid card list: %q", s)
	}

	var h Hand
	for i := 0; i < len(compact); i += 2 {
		c, err := ParseCard(compact[i : i+2])
		if err != nil {
			return 0, err
		}
		if h.HasCard(c) {
			return 0, fmt.Errorf("duplicate card: %s", c)
		}
		h.AddCard(c)
	}
	return h, nil
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard checks if the hand contains a specific card
func (h Hand) HasCard(c Card) bool {
	return (h & Hand(c)) != 0
}

// CountCards returns the number of cards in the hand
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// Overlaps reports whether the two sets share any card.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// Cards returns the cards in the set, highest rank first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for rank := int(Ace); rank >= int(Two); rank-- {
		for suit := int(Spades); suit >= int(Clubs); suit-- {
			c := NewCard(uint8(rank), uint8(suit))
			if h.HasCard(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// String renders the set as concatenated cards, e.g. "AsKd".
func (h Hand) String() string {
	var b strings.Builder
	for _, c := range h.Cards() {
		b.WriteString(c.String())
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (h Hand) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hand) UnmarshalText(text []byte) error {
	parsed, err := ParseHand(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
