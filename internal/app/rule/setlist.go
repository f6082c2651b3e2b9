package rule

import "context"

// SetlistGapRule rejects a setlist with a blank track before a filled one,
// in the main set or in any encore section.
type SetlistGapRule struct{}

func (r *SetlistGapRule) Name() string {
	return "setlist_gap_rule"
}

func (r *SetlistGapRule) Description() string {
	return "Rejects setlists with unfilled tracks between filled ones"
}

func (r *SetlistGapRule) ReturnCodes() []string {
	return []string{"setlist_gap"}
}

func (r *SetlistGapRule) ValidateConfig(settings map[string]any) error {
	return nil
}

func (r *SetlistGapRule) AppliesTo(intent Intent) bool {
	return true
}

func (r *SetlistGapRule) Check(ctx context.Context, d Draft) Result {
	if d.Setlist.Errors.HasGap() {
		return Reject("setlist_gap")
	}
	return Accept()
}

// EncoreEmptyRule rejects an encore section with no filled track.
type EncoreEmptyRule struct{}

func (r *EncoreEmptyRule) Name() string {
	return "encore_empty_rule"
}

func (r *EncoreEmptyRule) Description() string {
	return "Rejects encore sections without any track name"
}

func (r *EncoreEmptyRule) ReturnCodes() []string {
	return []string{"encore_section_empty"}
}

func (r *EncoreEmptyRule) ValidateConfig(settings map[string]any) error {
	return nil
}

func (r *EncoreEmptyRule) AppliesTo(intent Intent) bool {
	return true
}

func (r *EncoreEmptyRule) Check(ctx context.Context, d Draft) Result {
	if d.Setlist.Errors.HasEmptySection() {
		return Reject("encore_section_empty")
	}
	return Accept()
}

func init() {
	Register("setlist_gap_rule", func() Rule {
		return &SetlistGapRule{}
	})
	Register("encore_empty_rule", func() Rule {
		return &EncoreEmptyRule{}
	})
}
