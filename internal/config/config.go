package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"

	"mailtrack/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// The nested structs are tagged with envPrefix so their fields are parsed
// with the given prefix. Use Load to construct a Config.
//
// Config holds secrets (SMTP password, session secret); never log it.
type Config struct {
	Env string `env:"ENV" envDefault:"prod"`

	HTTP     configs.HTTP     `envPrefix:"HTTP_"`
	Log      configs.Logger   `envPrefix:"LOG_"`
	Psql     configs.Postgres `envPrefix:"PSQL_"`
	SMTP     configs.SMTP     `envPrefix:"SMTP_"`
	Tracking configs.Tracking `envPrefix:"TRACKING_"`
	Session  configs.Session  `envPrefix:"SESSION_"`
	Campaign configs.Campaign `envPrefix:"CAMPAIGN_"`
	Admin    configs.Admin    `envPrefix:"ADMIN_"`
	Metrics  configs.Metrics  `envPrefix:"METRICS_"`
}

// Tools is the subset of Config needed by the maintenance commands
// (migrate, admin, seed), which must work without the web secrets.
type Tools struct {
	Log  configs.Logger   `envPrefix:"LOG_"`
	Psql configs.Postgres `envPrefix:"PSQL_"`
}

const minSessionSecret = 32

// Load reads configuration from environment variables into a Config and
// validates the values env cannot check on its own.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	cfg.Tracking.BaseURL = strings.TrimRight(cfg.Tracking.BaseURL, "/")
	return cfg, nil
}

// LoadTools reads the Tools subset from environment variables.
func LoadTools() (Tools, error) {
	var cfg Tools
	err := env.Parse(&cfg)
	return cfg, err
}

func (c Config) validate() error {
	var errs []error
	if len(c.Session.Secret) < minSessionSecret {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecret))
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE: unknown store %q", c.Session.Store))
	}
	switch c.Campaign.RecipientPolicy {
	case configs.RecipientPolicyAccept, configs.RecipientPolicyDrop, configs.RecipientPolicyReject:
	default:
		errs = append(errs, fmt.Errorf("CAMPAIGN_RECIPIENT_POLICY: unknown policy %q", c.Campaign.RecipientPolicy))
	}
	switch c.SMTP.TLSMode {
	case "ssl", "starttls":
	default:
		errs = append(errs, fmt.Errorf("SMTP_TLS_MODE: unknown mode %q", c.SMTP.TLSMode))
	}
	if u, err := url.Parse(c.Tracking.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("TRACKING_BASE_URL: %q is not an absolute URL", c.Tracking.BaseURL))
	}
	if (c.Admin.BootstrapUsername == "") != (c.Admin.BootstrapPassword == "") {
		errs = append(errs, errors.New("ADMIN_BOOTSTRAP_USERNAME and ADMIN_BOOTSTRAP_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}
