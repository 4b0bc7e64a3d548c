package download

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Port - Serial connection a Session talks over. Read may return 0
// bytes with a nil error when nothing arrived within the port's poll interval.
type Port interface {
	io.ReadWriter

	// Drain discards the bytes already queued on the port without waiting for more
	Drain() error
}

// Status - Terminal state reported by the device
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome - Describes how the device ended the transfer.
type Outcome struct {
	Status Status

	// Message is the line the device sent after its final prompt, terminator included
	Message string

	// Sent is the number of image bytes transferred (padding excluded)
	Sent int
}

// Session - Drives a single image transfer. It owns the cursor into the image
// but not the port: the caller opens the port and closes it when Run returns.
type Session struct {
	port   Port
	image  []byte
	cursor int
	chunks int
	config Config
}

// New - Creates a Session sending image over port.
func New(port Port, image []byte, opts ...Option) *Session {
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		port:   port,
		image:  image,
		config: cfg,
	}
}

// Cursor - Returns the number of image bytes sent so far.
func (s *Session) Cursor() int {
	return s.cursor
}

// ChunksSent - Returns the number of chunks written to the port.
func (s *Session) ChunksSent() int {
	return s.chunks
}

// Run - Drains the port, sends the trigger command and answers device prompts
// until the device reports success or failure. A device-reported failure is an
// Outcome, not an error; errors are reserved for the link itself, timeouts and
// cancellation.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	log := s.config.Logger

	if err := checkASCII(s.config.Command); err != nil {
		return Outcome{}, err
	}

	if err := s.port.Drain(); err != nil {
		return Outcome{}, &TransportError{Op: "drain", Err: err}
	}

	log.Debug().Str("command", s.config.Command).Msg("sending trigger command")
	if err := s.write(append([]byte(s.config.Command), lineTerminator)); err != nil {
		return Outcome{}, err
	}

	for {
		c, err := s.readByte(ctx)
		if err != nil {
			return s.outcome(StatusUnknown, ""), err
		}

		if s.config.Verbose {
			s.echo([]byte{c})
		}

		switch c {
		case promptFailed:
			line, err := s.readLine(ctx)
			if err != nil {
				return s.outcome(StatusUnknown, ""), err
			}
			log.Debug().Str("message", line).Int("sent", s.cursor).Msg("device reported failure")
			return s.finish(StatusFailed, line), nil

		case promptRequest:
			if err := s.sendChunk(); err != nil {
				return s.outcome(StatusUnknown, ""), err
			}

		case promptDone:
			line, err := s.readLine(ctx)
			if err != nil {
				return s.outcome(StatusUnknown, ""), err
			}
			log.Debug().Str("message", line).Int("sent", s.cursor).Msg("device reported success")
			return s.finish(StatusSuccess, line), nil
		}
	}
}

// Answers a single data-request prompt. Once the image is exhausted the
// prompt is left unanswered.
func (s *Session) sendChunk() error {
	chunk, n := NextChunk(s.image, s.cursor)
	if n == 0 {
		s.config.Logger.Debug().Int("cursor", s.cursor).Msg("image exhausted, ignoring data request")
		return nil
	}

	if err := s.write(chunk); err != nil {
		return err
	}
	s.cursor += n
	s.chunks++

	s.config.Logger.Trace().Int("chunk", s.chunks).Int("bytes", n).Int("cursor", s.cursor).Msg("chunk sent")

	if s.config.Progress != nil {
		s.config.Progress(s.cursor, len(s.image))
	}

	return nil
}

func (s *Session) finish(status Status, line string) Outcome {
	if s.config.Verbose {
		s.echo([]byte(line))
	}

	if status == StatusSuccess {
		fmt.Fprintln(s.config.Output, "Success!")
	} else {
		fmt.Fprintln(s.config.Output, "Failed!")
	}

	return s.outcome(status, line)
}

func (s *Session) outcome(status Status, line string) Outcome {
	return Outcome{Status: status, Message: line, Sent: s.cursor}
}

func (s *Session) echo(data []byte) {
	_, _ = s.config.Output.Write(data)
}

func (s *Session) write(data []byte) error {
	for len(data) > 0 {
		n, err := s.port.Write(data)
		if err != nil {
			return &TransportError{Op: "write", Err: err}
		}
		if n == 0 {
			return &TransportError{Op: "write", Err: io.ErrShortWrite}
		}
		data = data[n:]
	}
	return nil
}

// Reads a single byte, polling until one arrives. Empty polls only end the
// wait when the context is done or the byte timeout has elapsed.
func (s *Session) readByte(ctx context.Context) (byte, error) {
	var deadline time.Time
	if s.config.ByteTimeout > 0 {
		deadline = time.Now().Add(s.config.ByteTimeout)
	}

	buff := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := s.port.Read(buff)
		if n > 0 {
			return buff[0], nil
		}
		if err != nil {
			return 0, &TransportError{Op: "read", Err: err}
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return 0, ErrTimeout
		}
	}
}

// Reads up to and including the line terminator.
func (s *Session) readLine(ctx context.Context) (string, error) {
	line := []byte{}
	for {
		c, err := s.readByte(ctx)
		if err != nil {
			return string(line), err
		}

		line = append(line, c)
		if c == lineTerminator {
			return string(line), nil
		}
	}
}

func checkASCII(command string) error {
	for i := 0; i < len(command); i++ {
		if command[i] > 0x7F {
			return fmt.Errorf("trigger command %q is not ASCII", command)
		}
	}
	return nil
}
