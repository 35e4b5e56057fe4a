package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Export ExportConfig      `yaml:"export"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ExportConfig holds the traversal and output settings. Command-line flags
// override every field.
type ExportConfig struct {
	Seed      string   `yaml:"seed"`
	Depth     *int     `yaml:"depth"`
	InputDir  string   `yaml:"input_dir"`
	OutputDir string   `yaml:"output_dir"`
	Exclude   []string `yaml:"exclude"`
	DropEmpty bool     `yaml:"drop_empty"`
	// WebPrefix activates markup rewriting of the copies when set.
	WebPrefix *string `yaml:"web_prefix"`
	// Manifest is the SQLite file the export is recorded in; empty disables it.
	Manifest  string `yaml:"manifest"`
	AssumeYes bool   `yaml:"assume_yes"`
}

// Validate validates the settings every command needs.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.InputDir, validation.Required),
		validation.Field(&c.Depth, validation.Min(0)),
	)
}

// ValidateForExport additionally requires what the export command needs.
func (c *ExportConfig) ValidateForExport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Seed, validation.Required),
		validation.Field(&c.Depth, validation.NotNil),
		validation.Field(&c.OutputDir, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the preview API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Export: ExportConfig{
			InputDir: ".",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
