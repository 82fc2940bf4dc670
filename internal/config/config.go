// Package config loads the static ruleset a hand is played under: blind sizes
// and the bounds a starting stack must fall within.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/handrecorder/internal/chips"
)

// ErrInvalid is returned for a ruleset or starting stack that violates the
// configured bounds.
var ErrInvalid = errors.New("invalid configuration")

// Blinds holds the forced bet sizes.
type Blinds struct {
	Small chips.Chips
	Big   chips.Chips
}

// Rules is the immutable ruleset read at hand start.
type Rules struct {
	DefaultStack chips.Chips
	MinStack     chips.Chips
	MaxStack     chips.Chips
	Blinds       Blinds
}

// DefaultRules returns a 0.5/1 ruleset with 100 BB default stacks.
func DefaultRules() Rules {
	return Rules{
		DefaultStack: chips.BB(100),
		MinStack:     chips.BB(1),
		MaxStack:     chips.BB(1000),
		Blinds: Blinds{
			Small: chips.MustParse("0.5"),
			Big:   chips.BB(1),
		},
	}
}

// rulesFile mirrors the HCL layout. Amounts are written in big blinds.
type rulesFile struct {
	DefaultStack *float64    `hcl:"default_stack,optional"`
	MinStack     *float64    `hcl:"min_stack,optional"`
	MaxStack     *float64    `hcl:"max_stack,optional"`
	Blinds       *blindsFile `hcl:"blinds,block"`
}

type blindsFile struct {
	Small float64 `hcl:"small"`
	Big   float64 `hcl:"big"`
}

// LoadRules loads a ruleset from an HCL file. A missing file yields the
// defaults; omitted fields fall back to their default values.
func LoadRules(filename string) (Rules, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultRules(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(src, filename)
}

// ParseRules decodes HCL source into a validated ruleset.
func ParseRules(src []byte, filename string) (Rules, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Rules{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw rulesFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return Rules{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	rules := DefaultRules()
	fields := []struct {
		name string
		src  *float64
		dst  *chips.Chips
	}{
		{"default_stack", raw.DefaultStack, &rules.DefaultStack},
		{"min_stack", raw.MinStack, &rules.MinStack},
		{"max_stack", raw.MaxStack, &rules.MaxStack},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		c, err := chips.FromFloat(*f.src)
		if err != nil {
			return Rules{}, fmt.Errorf("%w: %s: %v", ErrInvalid, f.name, err)
		}
		*f.dst = c
	}

	if raw.Blinds != nil {
		sb, err := chips.FromFloat(raw.Blinds.Small)
		if err != nil {
			return Rules{}, fmt.Errorf("%w: blinds.small: %v", ErrInvalid, err)
		}
		bb, err := chips.FromFloat(raw.Blinds.Big)
		if err != nil {
			return Rules{}, fmt.Errorf("%w: blinds.big: %v", ErrInvalid, err)
		}
		rules.Blinds = Blinds{Small: sb, Big: bb}
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks the ruleset is internally consistent.
func (r Rules) Validate() error {
	if r.Blinds.Small <= 0 {
		return fmt.Errorf("%w: small blind must be positive", ErrInvalid)
	}
	if r.Blinds.Big < r.Blinds.Small {
		return fmt.Errorf("%w: big blind must not be smaller than small blind", ErrInvalid)
	}
	if r.MinStack <= 0 {
		return fmt.Errorf("%w: minimum stack must be positive", ErrInvalid)
	}
	if r.MinStack > r.MaxStack {
		return fmt.Errorf("%w: minimum stack %s exceeds maximum %s", ErrInvalid, r.MinStack, r.MaxStack)
	}
	if err := r.ValidateStack(r.DefaultStack); err != nil {
		return fmt.Errorf("default stack: %w", err)
	}
	return nil
}

// ValidateStack checks a starting stack falls within the configured bounds.
func (r Rules) ValidateStack(stack chips.Chips) error {
	if stack < r.MinStack || stack > r.MaxStack {
		return fmt.Errorf("%w: stack %s outside [%s, %s]", ErrInvalid, stack, r.MinStack, r.MaxStack)
	}
	return nil
}
