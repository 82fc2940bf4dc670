package handstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/handrecorder/internal/game"
)

// Memory keeps encoded hands in a map. Hands are copied through the codec on
// the way in and out, so callers never share state with the store.
type Memory struct {
	mu    sync.RWMutex
	hands map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{hands: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, hand *game.Hand) error {
	if hand == nil {
		return fmt.Errorf("handstore: hand is nil")
	}
	if err := validID(hand.ID); err != nil {
		return err
	}
	data, err := Marshal(hand)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands[hand.ID] = data
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*game.Hand, error) {
	m.mu.RLock()
	data, ok := m.hands[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Unmarshal(data)
}

func (m *Memory) List(ctx context.Context) ([]*game.Hand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hands := make([]*game.Hand, 0, len(m.hands))
	for _, data := range m.hands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h, err := Unmarshal(data)
		if err != nil {
			return nil, err
		}
		hands = append(hands, h)
	}
	sortHands(hands)
	return hands, nil
}

func (m *Memory) Close() error {
	return nil
}
