package link

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultBaudrate - Line speed used when none is given
	DefaultBaudrate = 115200

	// How long a single Read waits before returning 0 bytes
	pollTimeoutMs = 100
)

// Backend - Serial library used to drive the port
type Backend int

const (
	BackendAlbenik Backend = iota
	BackendBugst
)

func (b Backend) String() string {
	switch b {
	case BackendAlbenik:
		return "albenik"
	case BackendBugst:
		return "bugst"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend - Converts a backend name (case insensitive) to a Backend
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "albenik":
		return BackendAlbenik, nil
	case "bugst", "go.bug.st":
		return BackendBugst, nil
	default:
		return 0, fmt.Errorf("unknown serial backend %q (expected albenik or bugst)", name)
	}
}

type config struct {
	baudrate int
	backend  Backend
}

// Option - Configures Open.
type Option func(*config)

// WithBaudrate - Sets the line speed. Non-positive values keep the default.
func WithBaudrate(baudrate int) Option {
	return func(c *config) {
		if baudrate > 0 {
			c.baudrate = baudrate
		}
	}
}

// WithBackend - Selects the serial library.
func WithBackend(backend Backend) Option {
	return func(c *config) {
		c.backend = backend
	}
}

// What both serial libraries provide
type port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
}

// Conn - Open serial connection. Read polls: it returns 0 bytes and a
// nil error when nothing arrived within the poll interval.
type Conn struct {
	name     string
	baudrate int
	backend  Backend
	port     port
	closed   bool
}

// Open - Opens the serial port name as 8N1 at the configured speed
func Open(name string, opts ...Option) (*Conn, error) {
	cfg := config{
		baudrate: DefaultBaudrate,
		backend:  BackendAlbenik,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if name == "" {
		return nil, errors.New("serial port name is empty")
	}

	var (
		p   port
		err error
	)

	switch cfg.backend {
	case BackendAlbenik:
		p, err = openAlbenik(name, cfg.baudrate)
	case BackendBugst:
		p, err = openBugst(name, cfg.baudrate)
	default:
		return nil, fmt.Errorf("unsupported serial backend %v", cfg.backend)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", name, cfg.baudrate, err)
	}

	return &Conn{
		name:     name,
		baudrate: cfg.baudrate,
		backend:  cfg.backend,
		port:     p,
	}, nil
}

// Name - Returns the port name the connection was opened with.
func (c *Conn) Name() string {
	return c.name
}

// Baudrate - Returns the configured line speed.
func (c *Conn) Baudrate() int {
	return c.baudrate
}

// Backend - Returns the serial library in use.
func (c *Conn) Backend() Backend {
	return c.backend
}

func (c *Conn) Read(buff []byte) (int, error) {
	return c.port.Read(buff)
}

func (c *Conn) Write(data []byte) (int, error) {
	return c.port.Write(data)
}

// Drain - Discards whatever is in the input buffer right now, never waits
func (c *Conn) Drain() error {
	return c.port.ResetInputBuffer()
}

// Close - Releases the port. Calling it again is a no-op.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}
