package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"debugcon/device"
	"debugcon/device/tty"
	"debugcon/device/video/console"
	"debugcon/device/video/console/snapshot"
	"debugcon/device/video/console/termcons"
	"debugcon/internal/config"
	"debugcon/kernel/hal"
)

// ConsoleArgs holds the flags shared by commands that drive a console.
type ConsoleArgs struct {
	*RootArgs

	ConfigPath string
	Backend    string
	Output     string
}

func (ca *ConsoleArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ca.ConfigPath, "config", "", "Path to the debugcon configuration file")
	cmd.Flags().StringVar(&ca.Backend, "backend", "",
		fmt.Sprintf("Output backend, one of: %s", config.AllBackends))
	cmd.Flags().StringVarP(&ca.Output, "output", "o", "", "Destination of text and png output, - for stdout")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("backend",
		cobra.FixedCompletions(config.AllBackends, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

// loadConfig reads the configuration file, if any, and applies the flag
// overrides on top of it.
func (ca *ConsoleArgs) loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()

	if ca.ConfigPath != "" {
		var err error

		cfg, err = config.Load(ca.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	if ca.Backend != "" {
		cfg.Output.Backend = config.Backend(ca.Backend)
	}

	if ca.Output != "" {
		cfg.Output.Path = ca.Output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// session is a console attached to the surface selected by the config.
type session struct {
	cfg     *config.Config
	backend config.Backend
	console *tty.Console
	surface console.Surface
	term    *termcons.Console
}

// openSession probes the surface for the configured backend and returns a
// console attached to it.
func openSession(cmd *cobra.Command, cfg *config.Config) (*session, error) {
	s := &session{
		cfg:     cfg,
		backend: resolveBackend(cfg.Output.Backend, cmd.OutOrStdout()),
	}

	var drivers device.DriverInfoList

	switch s.backend {
	case config.BackendTerm:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}

		s.term = termcons.New(screen)
		drivers = append(drivers, &device.DriverInfo{
			Order: device.DetectOrderHosted,
			Probe: func() device.Driver { return s.term },
		})
	default:
		drivers = append(drivers, &device.DriverInfo{
			Order: device.DetectOrderLast,
			Probe: console.ProbeBuffer(),
		})
	}

	if err := hal.DetectConsole(cfg.OverflowPolicy(), drivers); err != nil {
		return nil, fmt.Errorf("detect console: %w", err)
	}

	s.console = hal.ActiveConsole()
	s.surface = hal.ActiveSurface()

	for _, drv := range hal.ActiveDrivers() {
		major, minor, patch := drv.DriverVersion()
		slog.Debug("driver initialized",
			slog.String("driver", drv.DriverName()),
			slog.String("version", fmt.Sprintf("%d.%d.%d", major, minor, patch)),
		)
	}

	slog.Debug("console attached",
		slog.String("backend", string(s.backend)),
		slog.Uint64("attr", uint64(cfg.Console.Attribute)),
		slog.String("overflow", cfg.Console.Overflow),
	)

	s.console.SetColor(cfg.Console.Attribute)
	if cfg.Console.Clear {
		s.console.ClearScreen(cfg.Console.Attribute)
	}

	return s, nil
}

// close presents the surface contents. The terminal backend waits for a key
// press unless runErr is set; the text and png backends always write their
// output so that partial results survive a failed run.
func (s *session) close(cmd *cobra.Command, runErr error) error {
	if s.backend == config.BackendTerm {
		if runErr == nil {
			s.term.Show()
			s.term.WaitForKey()
		}
		s.term.Close()

		return runErr
	}

	return errors.Join(runErr, s.writeOutput(cmd.OutOrStdout()))
}

func (s *session) writeOutput(stdout io.Writer) (err error) {
	w := stdout

	if s.cfg.Output.Path != "-" {
		f, createErr := os.Create(s.cfg.Output.Path)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()

		w = f
	}

	switch s.backend {
	case config.BackendPNG:
		if err := snapshot.PNG(w, s.surface); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	default:
		if _, err := io.WriteString(w, snapshot.Text(s.surface)); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}

	slog.Debug("wrote output",
		slog.String("backend", string(s.backend)),
		slog.String("path", s.cfg.Output.Path),
	)

	return nil
}

// resolveBackend maps BackendAuto to the terminal when out is one and to
// plain text otherwise.
func resolveBackend(b config.Backend, out io.Writer) config.Backend {
	if b != config.BackendAuto {
		return b
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return config.BackendTerm
	}

	return config.BackendText
}
