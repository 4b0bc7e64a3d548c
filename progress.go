package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/janch32/catena-download/download"
)

// Returns a progress callback drawing a bar on w, and a function ending the
// bar's line once the transfer is over.
func newProgress(w io.Writer, total int) (download.ProgressFunc, func()) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Sending"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(0),
	)

	update := func(sent, _ int) {
		_ = bar.Set(sent)
	}
	done := func() {
		_ = bar.Finish()
		_, _ = io.WriteString(w, "\n")
	}

	return update, done
}
