package configs

import "time"

// SMTP describes the single outbound mail relay. The credential is read
// once and removed from the process environment.
type SMTP struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"465"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD,unset"`
	// From defaults to Username when empty.
	From string `env:"FROM"`
	// TLSMode is "ssl" (implicit TLS) or "starttls".
	TLSMode string        `env:"TLS_MODE" envDefault:"ssl"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sender returns the envelope sender address.
func (c SMTP) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}
