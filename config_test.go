package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catena.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func testFlags(opts *options) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.IntVarP(&opts.baud, "baud", "b", opts.baud, "")
	flags.BoolVarP(&opts.verbose, "verbose", "v", opts.verbose, "")
	flags.StringVarP(&opts.command, "command", "c", opts.command, "")
	flags.DurationVar(&opts.timeout, "timeout", opts.timeout, "")
	return flags
}

func TestLoadFileConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
port = "/dev/ttyACM0"
baud = 57600
command = "fw update"
verbose = true
hex = true
backend = "bugst"
timeout = "30s"
progress = true
`)

	opts := defaultOptions()
	if err := loadFileConfig(path, &opts, testFlags(&opts)); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if opts.port != "/dev/ttyACM0" {
		t.Fatalf("unexpected port: %q", opts.port)
	}
	if opts.baud != 57600 {
		t.Fatalf("unexpected baud: %d", opts.baud)
	}
	if opts.command != "fw update" {
		t.Fatalf("unexpected command: %q", opts.command)
	}
	if !opts.verbose || !opts.hex || !opts.progress {
		t.Fatalf("expected verbose, hex and progress enabled: %+v", opts)
	}
	if opts.backend != "bugst" {
		t.Fatalf("unexpected backend: %q", opts.backend)
	}
	if opts.timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", opts.timeout)
	}
}

func TestLoadFileConfigFlagsWin(t *testing.T) {
	path := writeConfig(t, `
baud = 57600
command = "fw update"
`)

	opts := defaultOptions()
	flags := testFlags(&opts)
	if err := flags.Parse([]string{"-b", "9600"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if err := loadFileConfig(path, &opts, flags); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if opts.baud != 9600 {
		t.Fatalf("flag should override config baud, got %d", opts.baud)
	}
	if opts.command != "fw update" {
		t.Fatalf("config should set command, got %q", opts.command)
	}
}

func TestLoadFileConfigPartial(t *testing.T) {
	path := writeConfig(t, `verbose = true`)

	opts := defaultOptions()
	if err := loadFileConfig(path, &opts, testFlags(&opts)); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if opts.baud != 115200 {
		t.Fatalf("expected default baud, got %d", opts.baud)
	}
	if opts.command != "system update" {
		t.Fatalf("expected default command, got %q", opts.command)
	}
	if opts.backend != "albenik" {
		t.Fatalf("expected default backend, got %q", opts.backend)
	}
}

func TestLoadFileConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key": `speed = 9600`,
		"bad timeout": `timeout = "soon"`,
		"bad baud":    `baud = 0`,
		"bad syntax":  `baud = `,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			opts := defaultOptions()
			if err := loadFileConfig(writeConfig(t, body), &opts, testFlags(&opts)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	opts := defaultOptions()
	if err := loadFileConfig(filepath.Join(t.TempDir(), "missing.toml"), &opts, testFlags(&opts)); err == nil {
		t.Fatalf("expected error for missing config")
	}
}
