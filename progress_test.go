package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressDoneEndsLine(t *testing.T) {
	buff := new(bytes.Buffer)
	update, done := newProgress(buff, 256)

	update(128, 256)
	update(256, 256)
	done()

	out := buff.String()
	if !strings.Contains(out, "Sending") {
		t.Errorf("expected bar description in output: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("expected output to end with a newline: %q", out)
	}
}
