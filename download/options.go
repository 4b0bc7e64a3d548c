package download

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ProgressFunc - Called after every chunk written to the device.
type ProgressFunc func(sent, total int)

// Config - Holds the session configuration.
type Config struct {
	// Command is the trigger line, sent without its terminator
	Command string

	// Verbose echoes every byte received from the device to Output
	Verbose bool

	// Output receives the echo and the final status line
	Output io.Writer

	// ByteTimeout limits how long Run waits for a single byte. Zero waits forever.
	ByteTimeout time.Duration

	Progress ProgressFunc
	Logger   zerolog.Logger
}

func defaultConfig() Config {
	return Config{
		Command: DefaultCommand,
		Output:  os.Stdout,
		Logger:  zerolog.Nop(),
	}
}

// Option - Functional option for configuring the Session.
type Option func(*Config)

// WithCommand - Sets the trigger command. An empty command sends a bare line terminator.
func WithCommand(command string) Option {
	return func(c *Config) {
		c.Command = command
	}
}

// WithVerbose - Enables echoing of the device output.
func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

// WithOutput - Sets the writer used for echo and status messages.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.Output = w
		}
	}
}

// WithByteTimeout - Sets the maximum wait for a single byte from the device.
func WithByteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.ByteTimeout = timeout
		}
	}
}

// WithProgress - Sets a callback reporting transferred image bytes.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Config) {
		c.Progress = fn
	}
}

// WithLogger - Sets the diagnostics logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
