// Package handstore persists finished hands.
//
// Hands are stored as TOML records (see Encode) in one of several backends:
// an in-memory map, a directory of files, a SQLite database or Redis. Open
// picks the backend from a DSN such as "dir:./hands" or "redis:localhost:6379".
package handstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lox/handrecorder/internal/game"
)

// ErrNotFound is returned by Get for an unknown hand id.
var ErrNotFound = errors.New("hand not found")

// Store saves and loads finished hands. Save replaces any existing hand with
// the same id. List returns hands oldest first.
type Store interface {
	Save(ctx context.Context, hand *game.Hand) error
	Get(ctx context.Context, id string) (*game.Hand, error)
	List(ctx context.Context) ([]*game.Hand, error)
	Close() error
}

// Open returns the store named by dsn:
//
//	memory:             in-process, lost on exit
//	dir:PATH            one TOML file per hand
//	sqlite:PATH         SQLite database file
//	redis:ADDR[/DB]     Redis server
func Open(ctx context.Context, dsn string) (Store, error) {
	kind, target, _ := strings.Cut(dsn, ":")

	var (
		store Store
		err   error
	)
	switch kind {
	case "memory":
		store = NewMemory()
	case "dir":
		store, err = NewDir(target)
	case "sqlite":
		store, err = NewSQLite(ctx, target)
	case "redis":
		store, err = NewRedis(ctx, target)
	default:
		return nil, fmt.Errorf("handstore: unknown store %q (want memory:, dir:, sqlite: or redis:)", dsn)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func sortHands(hands []*game.Hand) {
	slices.SortFunc(hands, func(a, b *game.Hand) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\:`) || id == "." || id == ".." {
		return fmt.Errorf("handstore: invalid hand id %q", id)
	}
	return nil
}
