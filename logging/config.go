package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "CATENA_LOG_LEVEL"
	EnvLogTimestamp = "CATENA_LOG_TIMESTAMP"
	EnvLogNoColor   = "CATENA_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

// New - Builds a console logger writing to w, configured for profile and
// adjusted by the CATENA_LOG_* environment variables.
func New(w io.Writer, profile Profile) zerolog.Logger {
	cfg := defaultConfig(profile)
	applyEnvOverrides(&cfg)
	return build(w, cfg)
}

// NewRuntime - Logger used by the command line tool: stderr, so that
// the protocol output on stdout stays clean.
func NewRuntime(verbose bool) zerolog.Logger {
	cfg := defaultConfig(ProfileRuntime)
	if verbose {
		cfg.Level = zerolog.DebugLevel
	}
	applyEnvOverrides(&cfg)
	return build(os.Stderr, cfg)
}

// NewTestLogger - Routes log output through t.Log.
func NewTestLogger(t zerolog.TestingLog) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.TraceLevel)
}

func build(w io.Writer, cfg Config) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(output).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func defaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, Timestamp: false, NoColor: true}
	default:
		return Config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
