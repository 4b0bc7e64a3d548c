package link

import (
	"time"

	"go.bug.st/serial"
)

func openBugst(name string, baudrate int) (port, error) {
	conn, err := serial.Open(name, &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})

	if err != nil {
		return nil, err
	}

	if err := conn.SetReadTimeout(pollTimeoutMs * time.Millisecond); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
