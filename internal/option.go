package internal

import (
	"io"

	"github.com/starford/roamshare/internal/exporter"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	confirm exporter.Confirmer
	out     io.Writer
	logOut  io.Writer
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfirmer sets the strategy that decides whether an existing output
// directory may be replaced.
func WithConfirmer(c exporter.Confirmer) Option {
	return func(a *application) {
		a.confirm = c
	}
}

// WithOutput sets where user-facing progress is printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where structured logs are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
