package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/handrecorder/internal/config"
	"github.com/lox/handrecorder/internal/handstore"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Rules    string `short:"r" default:"rules.hcl" help:"Path to HCL rules file (defaults apply when missing)"`
	Store    string `short:"s" default:"dir:hands" help:"Hand store: memory:, dir:PATH, sqlite:PATH or redis:ADDR"`
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Replay     ReplayCmd        `cmd:"" help:"Replay hand scripts through the engine and save them"`
	List       ListCmd          `cmd:"" help:"List saved hands"`
	Show       ShowCmd          `cmd:"" help:"Show one saved hand"`
	CheckRules CheckRulesCmd    `cmd:"check-rules" help:"Validate the rules file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handrec"),
		kong.Description("Record live no-limit hold'em hands at a six seat table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) logger() *log.Logger {
	logger := log.New(os.Stderr)
	switch g.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func (g *Globals) rules() (config.Rules, error) {
	rules, err := config.LoadRules(g.Rules)
	if err != nil {
		return config.Rules{}, fmt.Errorf("loading rules: %w", err)
	}
	return rules, nil
}

func (g *Globals) openStore(ctx context.Context) (handstore.Store, error) {
	store, err := handstore.Open(ctx, g.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
