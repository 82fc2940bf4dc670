package handstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lox/handrecorder/internal/game"
)

const handExt = ".toml"

// Dir stores one TOML file per hand in a directory.
type Dir struct {
	path string
}

// NewDir returns a store rooted at path, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("handstore: directory path is empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("handstore: create %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(id string) string {
	return filepath.Join(d.path, id+handExt)
}

func (d *Dir) Save(_ context.Context, hand *game.Hand) error {
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
	return writeFileAtomic(d.file(hand.ID), data, 0o644)
}

func (d *Dir) Get(_ context.Context, id string) (*game.Hand, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return d.read(d.file(id))
}

func (d *Dir) read(filename string) (*game.Hand, error) {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(filename), handExt))
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return h, nil
}

// List decodes every hand file in the directory, a few at a time.
func (d *Dir) List(ctx context.Context) ([]*game.Hand, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), handExt) {
			files = append(files, filepath.Join(d.path, e.Name()))
		}
	}

	hands := make([]*game.Hand, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, filename := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := d.read(filename)
			if err != nil {
				return err
			}
			hands[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortHands(hands)
	return hands, nil
}

func (d *Dir) Close() error {
	return nil
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over filename, so readers see either the old file or the new one.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("handstore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("handstore: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("handstore: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("handstore: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("handstore: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("handstore: rename temp file: %w", err)
	}
	committed = true
	return nil
}
