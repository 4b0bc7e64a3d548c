//go:build !darwin

package discover

import (
	"github.com/albenik/go-serial/v2/enumerator"
)

// Ports - Lists serial ports with their USB details
func Ports() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	found := []Port{}
	for _, d := range details {
		found = append(found, Port{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}

	return found, nil
}
