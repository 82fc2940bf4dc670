package handstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/handrecorder/internal/game"
)

// SQLite stores hands in a single table keyed by hand id.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("handstore: sqlite path is empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hands (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			folded_out INTEGER NOT NULL DEFAULT 0,
			pot INTEGER NOT NULL,
			record BLOB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("handstore: create hands table: %w", err)
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS hands_started_at ON hands (started_at, id)`)
	if err != nil {
		return fmt.Errorf("handstore: create index: %w", err)
	}
	return nil
}

func (s *SQLite) Save(ctx context.Context, hand *game.Hand) error {
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hands (id, started_at, folded_out, pot, record)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			folded_out = excluded.folded_out,
			pot = excluded.pot,
			record = excluded.record
	`, hand.ID, hand.StartedAt.UnixNano(), hand.FoldedOut, int64(hand.TotalPot()), data)
	if err != nil {
		return fmt.Errorf("handstore: save %s: %w", hand.ID, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*game.Hand, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT record FROM hands WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("handstore: get %s: %w", id, err)
	}
	return Unmarshal(data)
}

func (s *SQLite) List(ctx context.Context) ([]*game.Hand, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT record FROM hands ORDER BY started_at, id")
	if err != nil {
		return nil, fmt.Errorf("handstore: list: %w", err)
	}
	defer rows.Close()

	var hands []*game.Hand
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		h, err := Unmarshal(data)
		if err != nil {
			return nil, err
		}
		hands = append(hands, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hands, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
