package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/handrecorder/internal/handstore"
	"github.com/lox/handrecorder/internal/recorder"
	"github.com/lox/handrecorder/internal/script"
)

// ReplayCmd plays hand scripts through the engine and saves the results.
type ReplayCmd struct {
	Files  []string `arg:"" name:"file" type:"existingfile" help:"Hand script files"`
	DryRun bool     `short:"n" help:"Check the scripts without saving"`
	Quiet  bool     `short:"q" help:"Only print failures"`
}

func (cmd *ReplayCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	logger := g.logger()
	rules, err := g.rules()
	if err != nil {
		return err
	}

	var store handstore.Store = handstore.NewMemory()
	if !cmd.DryRun {
		if store, err = g.openStore(ctx); err != nil {
			return err
		}
	}
	defer store.Close()

	rec := recorder.New(rules, store, recorder.WithLogger(logger))

	failed := 0
	for _, file := range cmd.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := readScript(file)
		if err != nil {
			logger.Error("invalid script", "file", file, "err", err)
			failed++
			continue
		}

		hand, err := script.Play(ctx, rec, s)
		if err != nil {
			logger.Error("replay failed", "file", file, "err", err)
			failed++
			continue
		}
		logger.Debug("replayed", "file", file, "hand", hand.ID, "actions", len(hand.Actions))
		if !cmd.Quiet {
			printHand(os.Stdout, hand)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(cmd.Files))
	}
	return nil
}

func readScript(file string) (*script.Script, error) {
	f, err := os.Open(filepath.Clean(file))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return script.Parse(f)
}

// ListCmd prints one line per saved hand.
type ListCmd struct{}

func (cmd *ListCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	hands, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		fmt.Println(dimStyle.Render("no hands saved in " + g.Store))
		return nil
	}
	printHandList(os.Stdout, hands)
	return nil
}

// ShowCmd prints a saved hand in full.
type ShowCmd struct {
	ID string `arg:"" name:"id" help:"Hand id"`
}

func (cmd *ShowCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	hand, err := store.Get(ctx, cmd.ID)
	if errors.Is(err, handstore.ErrNotFound) {
		return fmt.Errorf("no hand %q in %s", cmd.ID, g.Store)
	}
	if err != nil {
		return err
	}
	printHand(os.Stdout, hand)
	return nil
}

// CheckRulesCmd loads and validates the rules file.
type CheckRulesCmd struct{}

func (cmd *CheckRulesCmd) Run(g *Globals) error {
	rules, err := g.rules()
	if err != nil {
		return err
	}
	fmt.Println(headerStyle.Render("rules ok"))
	fmt.Printf("  blinds         %s/%s\n", rules.Blinds.Small, rules.Blinds.Big)
	fmt.Printf("  default stack  %s\n", rules.DefaultStack)
	fmt.Printf("  stack range    %s to %s\n", rules.MinStack, rules.MaxStack)
	return nil
}
