package rule

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/likelive/internal/domain/blog"
)

// TitleRequiredRule rejects publishing a post without a title.
// Drafts may be saved untitled.
type TitleRequiredRule struct{}

func (r *TitleRequiredRule) Name() string {
	return "title_required_rule"
}

func (r *TitleRequiredRule) Description() string {
	return "Requires a non-blank title when publishing"
}

func (r *TitleRequiredRule) ReturnCodes() []string {
	return []string{"title_required"}
}

func (r *TitleRequiredRule) ValidateConfig(settings map[string]any) error {
	return nil
}

func (r *TitleRequiredRule) AppliesTo(intent Intent) bool {
	return intent == IntentPublish
}

func (r *TitleRequiredRule) Check(ctx context.Context, d Draft) Result {
	if strings.TrimSpace(d.Title) == "" {
		return Reject("title_required")
	}
	return Accept()
}

// TitleLengthConfig represents the configuration for TitleLengthRule.
type TitleLengthConfig struct {
	MaxLength int `yaml:"max_length" mapstructure:"max_length" default:"50" validate:"gte=1,lte=255"`
}

// TitleLengthRule rejects titles longer than the configured number of runes.
type TitleLengthRule struct {
	config *TitleLengthConfig
}

func (r *TitleLengthRule) Name() string {
	return "title_length_rule"
}

func (r *TitleLengthRule) Description() string {
	return "Limits the title length"
}

func (r *TitleLengthRule) ReturnCodes() []string {
	return []string{"title_too_long"}
}

func (r *TitleLengthRule) ValidateConfig(settings map[string]any) error {
	var config TitleLengthConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	r.config = &config
	zlog.Info().Msgf("title length rule config: %+v", config)
	return nil
}

func (r *TitleLengthRule) AppliesTo(intent Intent) bool {
	return true
}

func (r *TitleLengthRule) Check(ctx context.Context, d Draft) Result {
	limit := blog.MaxTitleLength
	if r.config != nil {
		limit = r.config.MaxLength
	}
	if utf8.RuneCountInString(d.Title) > limit {
		return Reject("title_too_long")
	}
	return Accept()
}

func init() {
	Register("title_required_rule", func() Rule {
		return &TitleRequiredRule{}
	})
	Register("title_length_rule", func() Rule {
		return &TitleLengthRule{}
	})
}
