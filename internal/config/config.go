// Package config provides application configuration.
package config

import "fmt"

// Default configuration values.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8080
	DefaultLogLevel = "INFO"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig is the resolved application configuration. It is a value type:
// options return modified copies.
type AppConfig struct {
	host            string
	port            int
	logLevel        string
	logFormat       LogFormat
	snapshotDir     string
	snapshotEnabled bool
}

// AppConfigOption mutates an AppConfig during construction.
type AppConfigOption func(*AppConfig)

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:            DefaultHost,
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		snapshotDir:     ".",
		snapshotEnabled: true,
	}
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithSnapshotDir sets the directory holding the snapshot file pair.
func WithSnapshotDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.snapshotDir = dir }
}

// WithSnapshotEnabled toggles snapshot load and the periodic saver.
func WithSnapshotEnabled(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.snapshotEnabled = enabled }
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port listen address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// SnapshotDir returns the directory holding the snapshot file pair.
func (c AppConfig) SnapshotDir() string { return c.snapshotDir }

// SnapshotEnabled reports whether snapshot persistence is active.
func (c AppConfig) SnapshotEnabled() bool { return c.snapshotEnabled }
