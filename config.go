package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/janch32/catena-download/download"
	"github.com/janch32/catena-download/link"
)

// Settings gathered from defaults, the optional config file and flags, in
// increasing order of precedence.
type options struct {
	configPath string
	port       string
	baud       int
	verbose    bool
	command    string
	hex        bool
	backend    string
	timeout    time.Duration
	progress   bool
	list       bool
}

func defaultOptions() options {
	return options{
		baud:    link.DefaultBaudrate,
		command: download.DefaultCommand,
		backend: link.BackendAlbenik.String(),
	}
}

type fileConfig struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	Command  string `toml:"command"`
	Verbose  bool   `toml:"verbose"`
	Hex      bool   `toml:"hex"`
	Backend  string `toml:"backend"`
	Timeout  string `toml:"timeout"`
	Progress bool   `toml:"progress"`
}

// Applies the config file at path to opts, skipping every setting whose flag
// was given explicitly on the command line.
func loadFileConfig(path string, opts *options, flags *pflag.FlagSet) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	set := func(key, flag string) bool {
		return meta.IsDefined(key) && (flag == "" || !flags.Changed(flag))
	}

	if set("port", "") {
		opts.port = strings.TrimSpace(raw.Port)
	}

	if set("baud", "baud") {
		if raw.Baud <= 0 {
			return fmt.Errorf("load config: baud must be positive, got %d", raw.Baud)
		}
		opts.baud = raw.Baud
	}

	if set("command", "command") {
		opts.command = raw.Command
	}

	if set("verbose", "verbose") {
		opts.verbose = raw.Verbose
	}

	if set("hex", "hex") {
		opts.hex = raw.Hex
	}

	if set("backend", "backend") {
		opts.backend = strings.TrimSpace(raw.Backend)
	}

	if set("timeout", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		opts.timeout = d
	}

	if set("progress", "progress") {
		opts.progress = raw.Progress
	}

	return nil
}
