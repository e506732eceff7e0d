package standard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccheshirecat/tapdeck/internal/app"
	"github.com/ccheshirecat/tapdeck/internal/cli/tui"
	"github.com/ccheshirecat/tapdeck/internal/config"
	"github.com/ccheshirecat/tapdeck/internal/eventbus/memory"
	"github.com/ccheshirecat/tapdeck/internal/shared/logging"
)

// Version is overridden at build time with -ldflags "-X ...standard.Version=...".
var Version = "dev"

var (
	isTerminal = func(fd int) bool { return term.IsTerminal(fd) }
	clock      = time.Now
)

// Execute runs the Cobra-based CLI entry point.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tapdeck",
		Short:         "Pointer events over an in-process event bus",
		Long:          "tapdeck turns mouse clicks and pointer motion in the terminal into events on an in-process bus and shows a click counter and a log of the last 100 events.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	cmd.PersistentFlags().StringP("config", "c", envOrDefault("TAPDECK_CONFIG", ""), "path to a YAML config file")
	cmd.PersistentFlags().String("counter-kind", "", "event kind shown by the counter (click, move)")
	cmd.PersistentFlags().String("log-path", "", `log file path, "-" for stderr`)
	cmd.Flags().Bool("no-alt-screen", false, "render inline instead of in the alternate screen")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSimulateCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tapdeck version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tapdeck %s\n", Version)
		},
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use %q for headless runs", "tapdeck simulate")
	}

	rt, err := setup(cmd, "tui")
	if err != nil {
		return err
	}
	defer rt.Close()

	altScreen := rt.cfg.AltScreen
	if noAlt, _ := cmd.Flags().GetBool("no-alt-screen"); noAlt {
		altScreen = false
	}
	return tui.Run(cmd.Context(), rt.app, tui.Options{AltScreen: altScreen})
}

// session bundles what every command builds from config.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	app    *app.App
	logOut io.Closer
}

func setup(cmd *cobra.Command, subsystem string) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	out, err := logging.Open(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(subsystem, out, cfg.SlogLevel())

	bus := memory.New(memory.WithLogger(logger), memory.WithClock(clock))
	a, err := app.New(cfg, logger, bus)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, app: a, logOut: out}, nil
}

func (r *session) Close() {
	r.app.Close()
	_ = r.logOut.Close()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("counter-kind") {
		cfg.CounterKind, _ = cmd.Flags().GetString("counter-kind")
	}
	if cmd.Flags().Changed("log-path") {
		cfg.LogPath, _ = cmd.Flags().GetString("log-path")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
