package configs

import "time"

// Session configures admin sessions.
type Session struct {
	// Secret signs session cookies. It must be at least 32 bytes.
	Secret string        `env:"SECRET,required,unset"`
	TTL    time.Duration `env:"TTL" envDefault:"12h"`
	// SecureCookie sets the Secure flag; enable it behind HTTPS.
	SecureCookie bool `env:"SECURE_COOKIE" envDefault:"false"`
	// Store selects the backend: "memory" or "redis".
	Store    string `env:"STORE" envDefault:"memory"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}
