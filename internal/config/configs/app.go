package configs

// Tracking configures how tracking links are built.
type Tracking struct {
	// BaseURL is the outward-facing origin used in tracking links, without
	// a trailing slash.
	BaseURL string `env:"BASE_URL" envDefault:"http://127.0.0.1:8080"`
}

// Recipient policies for addresses that fail RFC 5322 parsing.
const (
	RecipientPolicyAccept = "accept"
	RecipientPolicyDrop   = "drop"
	RecipientPolicyReject = "reject"
)

// Campaign configures campaign creation.
type Campaign struct {
	RecipientPolicy string `env:"RECIPIENT_POLICY" envDefault:"accept"`
}

// Admin carries optional first-run credentials. When both are set and no
// admin exists, the account is created at startup.
type Admin struct {
	BootstrapUsername string `env:"BOOTSTRAP_USERNAME"`
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD,unset"`
}

// Metrics toggles the Prometheus endpoint.
type Metrics struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}
