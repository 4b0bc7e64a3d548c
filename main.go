package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janch32/catena-download/discover"
	"github.com/janch32/catena-download/download"
	"github.com/janch32/catena-download/link"
	"github.com/janch32/catena-download/logging"
	"github.com/janch32/catena-download/memory"
)

const (
	exitSuccess     = 0
	exitFailed      = 1 // device reported failure
	exitStartup     = 2 // nothing was transferred
	exitTransport   = 3 // link fault or timeout mid-transfer
	exitInterrupted = 130
)

// exitError carries the process exit code out of the command. A nil err means
// the reason was already reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func startupError(err error) error {
	return &exitError{code: exitStartup, err: err}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		exitErr = &exitError{code: exitStartup, err: err}
	}

	if exitErr.err != nil {
		logger := logging.New(stderr, logging.ProfileRuntime)
		logger.Error().Err(exitErr.err).Int("code", exitErr.code).Msg("catena-download")
	}

	return exitErr.code
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "catena-download {inputBinFile} {portname}",
		Short: "Download an image file to a Catena over a serial port",
		Long: `Sends the trigger command to the device and answers its prompts with
128-byte chunks of the image until the device reports success or failure.`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				if err := loadFileConfig(opts.configPath, &opts, cmd.Flags()); err != nil {
					return startupError(err)
				}
			}

			if opts.list {
				return listPorts(stdout)
			}

			if len(args) == 0 {
				return startupError(errors.New("missing input file"))
			}
			if len(args) == 2 {
				opts.port = args[1]
			}
			if opts.port == "" {
				return startupError(errors.New("missing serial port"))
			}

			return run(cmd.Context(), args[0], opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.baud, "baud", "b", opts.baud, "baud rate")
	flags.BoolVarP(&opts.verbose, "verbose", "v", opts.verbose, "verbose output")
	flags.StringVarP(&opts.command, "command", "c", opts.command, "command to send to trigger update")
	flags.StringVar(&opts.configPath, "config", "", "TOML file with default settings")
	flags.BoolVar(&opts.hex, "hex", false, "input file is Intel HEX, flatten it before sending")
	flags.StringVar(&opts.backend, "backend", opts.backend, "serial library: albenik or bugst")
	flags.DurationVar(&opts.timeout, "timeout", 0, "give up when the device is silent this long (0 waits forever)")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr (ignored with --verbose)")
	flags.BoolVar(&opts.list, "list", false, "list serial ports and exit")

	return cmd
}

func listPorts(w io.Writer) error {
	ports, err := discover.Ports()
	if err != nil {
		return startupError(fmt.Errorf("list ports: %w", err))
	}
	return discover.Print(w, ports)
}

func run(ctx context.Context, inputPath string, opts options, stdout, stderr io.Writer) error {
	logger := logging.NewRuntime(opts.verbose)

	backend, err := link.ParseBackend(opts.backend)
	if err != nil {
		return startupError(err)
	}

	img, err := loadImage(inputPath, opts.hex)
	if err != nil {
		return startupError(err)
	}
	if opts.verbose {
		fmt.Fprintf(stdout, "Read file: size %d\n", img.Len())
	}
	logger.Debug().Str("file", inputPath).Int("size", img.Len()).Uint32("base", img.Base).Msg("image loaded")

	conn, err := link.Open(opts.port, link.WithBaudrate(opts.baud), link.WithBackend(backend))
	if err != nil {
		return startupError(err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Str("port", conn.Name()).Msg("close port")
		}
	}()

	if opts.verbose {
		fmt.Fprintf(stdout, "Using port %s\n", conn.Name())
	}
	logger.Debug().Str("port", conn.Name()).Int("baud", conn.Baudrate()).Stringer("backend", conn.Backend()).Msg("port open")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionOpts := []download.Option{
		download.WithCommand(opts.command),
		download.WithVerbose(opts.verbose),
		download.WithOutput(stdout),
		download.WithByteTimeout(opts.timeout),
		download.WithLogger(logger),
	}

	if opts.progress && !opts.verbose && img.Len() > 0 {
		update, done := newProgress(stderr, img.Len())
		defer done()
		sessionOpts = append(sessionOpts, download.WithProgress(update))
	}

	outcome, err := download.New(conn, img.Data, sessionOpts...).Run(ctx)
	return outcomeError(outcome, err, logger)
}

// Maps the result of a transfer to the process exit code.
func outcomeError(outcome download.Outcome, err error, logger zerolog.Logger) error {
	if err != nil {
		logger.Debug().Int("sent", outcome.Sent).Msg("transfer aborted")
		if errors.Is(err, context.Canceled) {
			return &exitError{code: exitInterrupted, err: err}
		}
		return &exitError{code: exitTransport, err: err}
	}

	switch outcome.Status {
	case download.StatusSuccess:
		return nil
	case download.StatusFailed:
		return &exitError{code: exitFailed}
	default:
		return &exitError{code: exitTransport, err: fmt.Errorf("transfer ended with status %v", outcome.Status)}
	}
}

func loadImage(path string, hex bool) (*memory.Image, error) {
	if hex {
		return memory.LoadHexFile(path)
	}
	return memory.LoadBinary(path)
}
