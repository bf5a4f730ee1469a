package slacklog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig wraps every configuration validation failure so callers
// can detect it with errors.Is regardless of which field was at fault.
var ErrInvalidConfig = errors.New("slacklog: invalid configuration")

// Config is the process-wide forwarding configuration. It is read once at
// construction and never mutated afterwards, so concurrent events need no
// coordination.
type Config struct {
	// WebhookURL is the Slack incoming-webhook destination. Required:
	// a forwarder with nowhere to post fails at construction rather than
	// silently dropping messages.
	WebhookURL string `yaml:"webhook_url" envconfig:"SLACK_WEBHOOK_URL" validate:"required,url"`

	// Channel, Username and IconURL override the webhook defaults when set.
	Channel  string `yaml:"channel" envconfig:"SLACK_CHANNEL"`
	Username string `yaml:"username" envconfig:"SLACK_USERNAME"`
	IconURL  string `yaml:"icon_url" envconfig:"SLACK_ICON_URL"`

	// TriggerTags select which log events are forwarded: an event is posted
	// when its tag set intersects this list. Empty means the log event path
	// is not subscribed at all.
	TriggerTags []string `yaml:"tags" envconfig:"SLACK_TAGS"`

	// AdditionalTags are unioned into every notification's tag set before
	// rendering, so they participate in coloring and the Tags field.
	AdditionalTags []string `yaml:"additional_tags" envconfig:"SLACK_ADDITIONAL_TAGS"`

	// AdditionalFields are injected into every attachment ahead of the
	// Tags field.
	AdditionalFields []Field `yaml:"additional_fields" ignored:"true"`

	// HideTags suppresses the Tags field entirely.
	HideTags bool `yaml:"hide_tags" envconfig:"SLACK_HIDE_TAGS"`

	// InternalErrors subscribes the forwarder to the host's request-error
	// event in addition to the log event.
	InternalErrors bool `yaml:"internal_errors" envconfig:"SLACK_INTERNAL_ERRORS"`
}

var validate = validator.New()

// Validate checks the configuration, wrapping failures in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

/**
 * FromEnv builds a Config from the process environment. A .env file in the
 * working directory is loaded first (non-fatal if absent, never overrides
 * real environment variables), then SLACK_* variables are processed and the
 * result validated.
 *
 * List-valued settings (SLACK_TAGS, SLACK_ADDITIONAL_TAGS) are comma
 * separated. AdditionalFields has no environment form and must be set in
 * code.
 *
 * @return *Config Validated configuration ready for New
 * @return error ErrInvalidConfig-wrapped validation failure, or an
 *         envconfig processing error
 */
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("slacklog: process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
