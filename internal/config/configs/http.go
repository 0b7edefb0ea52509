package configs

import "time"

// HTTP defines configuration for the admin and tracking HTTP server.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on. Defaults to 8080.
	Port uint16 `env:"PORT" envDefault:"8080"`
	// ReadTimeout bounds reading a request including its body.
	ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	// WriteTimeout bounds writing a response. Campaign creation sends all
	// mail inside the request, so this is deliberately generous.
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10m"`
	// ShutdownTimeout is how long in-flight requests get on SIGTERM.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
