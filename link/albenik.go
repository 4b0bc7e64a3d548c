package link

import (
	"github.com/albenik/go-serial/v2"
)

func openAlbenik(name string, baudrate int) (port, error) {
	conn, err := serial.Open(
		name,
		serial.WithBaudrate(baudrate),
		serial.WithDataBits(8),
		serial.WithParity(serial.NoParity),
		serial.WithStopBits(serial.OneStopBit),
		serial.WithReadTimeout(pollTimeoutMs),
	)

	if err != nil {
		return nil, err
	}

	return conn, nil
}
