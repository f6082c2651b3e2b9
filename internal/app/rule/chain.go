package rule

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Verdict is the outcome of running the whole chain.
type Verdict struct {
	Accepted bool
	Codes    []string // Rejection codes in rule order
}

// Chain executes rules in sequence.
type Chain struct {
	rules []Rule
}

// NewChain creates a new rule chain.
func NewChain() *Chain {
	return &Chain{
		rules: make([]Rule, 0),
	}
}

// Add adds a rule to the chain.
func (c *Chain) Add(r Rule) {
	c.rules = append(c.rules, r)
}

// Execute runs every rule that applies to the intent.
// Unlike a filter chain it does not stop at the first rejection, so the caller
// can report all problems of one submission at once.
func (c *Chain) Execute(ctx context.Context, intent Intent, d Draft) Verdict {
	v := Verdict{Accepted: true}
	for _, r := range c.rules {
		if !r.AppliesTo(intent) {
			continue
		}
		result := r.Check(ctx, d)
		if !result.Accepted {
			v.Accepted = false
			v.Codes = append(v.Codes, result.Code)
		}
	}
	return v
}

// Rules returns all rules in the chain.
func (c *Chain) Rules() []Rule {
	return c.rules
}

// mandatory lists the rules that guard the setlist itself.
var mandatory = map[string]bool{
	"setlist_gap_rule":  true,
	"encore_empty_rule": true,
}

// Settings tells BuildChain whether a rule is enabled and how it is configured.
type Settings func(name string) (enabled bool, settings map[string]any)

// BuildChain instantiates every registered rule in name order, skipping
// disabled ones, and validates each rule's configuration.
func BuildChain(settings Settings) (*Chain, error) {
	chain := NewChain()
	for _, name := range Names() {
		enabled, cfg := settings(name)
		if !enabled {
			if mandatory[name] {
				return nil, errors.Newf("rule %s cannot be disabled", name)
			}
			zlog.Info().Msgf("rule disabled: %s", name)
			continue
		}
		r := registry[name]()
		if err := r.ValidateConfig(cfg); err != nil {
			return nil, errors.Wrapf(err, "invalid config for rule %s", name)
		}
		chain.Add(r)
	}
	return chain, nil
}
