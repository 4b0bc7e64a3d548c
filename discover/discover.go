package discover

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Port - Serial port found on this machine
type Port struct {
	Name         string // Device name accepted by link.Open
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// Print - Writes the list of ports as a table
func Print(w io.Writer, ports []Port) error {
	if len(ports) == 0 {
		_, err := fmt.Fprintln(w, "No serial ports found!")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tUSB ID\tSERIAL\tPRODUCT")
	for _, p := range ports {
		usbID := "-"
		if p.IsUSB {
			usbID = p.VID + ":" + p.PID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, usbID, dash(p.SerialNumber), dash(p.Product))
	}

	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
