package discover

import (
	"github.com/albenik/go-serial/v2"
)

// Ports - Lists serial ports. USB details are not available on macOS.
func Ports() ([]Port, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	found := []Port{}
	for _, name := range names {
		found = append(found, Port{Name: name})
	}

	return found, nil
}
