// Package rule provides the rule chain that gates post submissions.
package rule

import (
	"context"
	"sort"

	"github.com/osa030/likelive/internal/domain/setlist"
)

// Intent is the submission the user asked for.
type Intent string

const (
	IntentDraft   Intent = "draft"   // Save as draft
	IntentPublish Intent = "publish" // Publish a new post or update a published one
)

// Draft is the editor content checked by the rules.
// Setlist must already carry the overlay of the current validation pass.
type Draft struct {
	Title   string
	Setlist setlist.State
}

// Result represents the result of a rule check.
type Result struct {
	Accepted bool
	Code     string // e.g., "title_required", "setlist_gap"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Rule is the interface for submission rules.
type Rule interface {
	// Name returns the rule name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this rule can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the rule configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this rule should run for the given intent.
	AppliesTo(intent Intent) bool
	// Check performs the rule check.
	Check(ctx context.Context, d Draft) Result
}

// registry holds registered rule factories.
var registry = make(map[string]func() Rule)

// Register registers a rule factory.
func Register(name string, factory func() Rule) {
	registry[name] = factory
}

// GetRegistered returns all registered rule factories.
func GetRegistered() map[string]func() Rule {
	return registry
}

// Names returns the registered rule names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
