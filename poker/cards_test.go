package poker

import (
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank() != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank())
	}
	if aceSpades.Suit() != Spades {
		t.Errorf("Expected suit Spades, got %d", aceSpades.Suit())
	}
	if aceSpades.String() != "As" {
		t.Errorf("Expected 'As', got %s", aceSpades.String())
	}

	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2c" {
		t.Errorf("Expected '2c', got %s", twoClubs.String())
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(Ace, Spades)},
		{name: "two of hearts", input: "2h", wantCard: NewCard(Two, Hearts)},
		{name: "lowercase ten", input: "tc", wantCard: NewCard(Ten, Clubs)},
		{name: "uppercase suit", input: "KD", wantCard: NewCard(King, Diamonds)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "too long", input: "Asd", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if card != tc.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, card, tc.wantCard)
			}
		})
	}
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)

	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			card := NewCard(rank, suit)
			str := card.String()
			if seen[str] {
				t.Errorf("Duplicate card: %s", str)
			}
			seen[str] = true

			parsed, err := ParseCard(str)
			if err != nil || parsed != card {
				t.Errorf("Round-trip failed for %s: %v", str, err)
			}
		}
	}

	if len(seen) != 52 {
		t.Errorf("Expected 52 unique cards, got %d", len(seen))
	}
}

func TestParseHand(t *testing.T) {
	t.Parallel()

	board, err := ParseHand("Ah 7c 2d")
	if err != nil {
		t.Fatalf("ParseHand failed: %v", err)
	}
	if board.CountCards() != 3 {
		t.Errorf("Expected 3 cards, got %d", board.CountCards())
	}
	if board.String() != "Ah7c2d" {
		t.Errorf("Expected Ah7c2d, got %s", board.String())
	}

	if _, err := ParseHand("AsAs"); err == nil {
		t.Error("Duplicate cards should be rejected")
	}
	if _, err := ParseHand("AsK"); err == nil {
		t.Error("Odd length input should be rejected")
	}
}

func TestHandOperations(t *testing.T) {
	t.Parallel()
	aceSpades, _ := ParseCard("As")
	kingHearts, _ := ParseCard("Kh")
	queenDiamonds, _ := ParseCard("Qd")

	hand := NewHand(aceSpades, kingHearts)
	if !hand.HasCard(aceSpades) || !hand.HasCard(kingHearts) {
		t.Error("Hand should contain both cards")
	}
	if hand.HasCard(queenDiamonds) {
		t.Error("Hand should not contain Queen of Diamonds")
	}

	hand.AddCard(queenDiamonds)
	if hand.CountCards() != 3 {
		t.Errorf("Hand should have 3 cards, got %d", hand.CountCards())
	}
	if !hand.Overlaps(NewHand(queenDiamonds)) {
		t.Error("Hand should overlap a set containing one of its cards")
	}
}

func TestHandTextRoundTrip(t *testing.T) {
	t.Parallel()
	hand, _ := ParseHand("KdAs")

	text, err := hand.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "AsKd" {
		t.Errorf("Expected AsKd, got %s", text)
	}

	var decoded Hand
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if decoded != hand {
		t.Errorf("Round-trip mismatch: %v != %v", decoded, hand)
	}
}
