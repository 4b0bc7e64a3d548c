package download

import (
	"errors"
	"fmt"
)

// ErrTimeout - Returned by Run when a byte timeout is configured and the
// device stays silent for longer than that.
var ErrTimeout = errors.New("timed out waiting for the device")

// TransportError - Wraps an I/O failure on the serial link during a transfer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
