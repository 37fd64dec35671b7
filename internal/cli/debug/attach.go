package debug

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally"

	"github.com/sfcc-studio/scriptdebug/internal/cli/helpers"
	"github.com/sfcc-studio/scriptdebug/internal/config"
	"github.com/sfcc-studio/scriptdebug/internal/constants"
	"github.com/sfcc-studio/scriptdebug/internal/debugger"
	cerrors "github.com/sfcc-studio/scriptdebug/internal/errors"
	"github.com/sfcc-studio/scriptdebug/internal/logging"
	"github.com/sfcc-studio/scriptdebug/internal/retry"
	"github.com/sfcc-studio/scriptdebug/internal/sdapi"
)

// NewAttachCmd creates the attach command.
func NewAttachCmd(flags *helpers.GlobalFlags) *cobra.Command {
	var (
		breakpoints []string
		noConnect   bool
	)

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach to the instance's script debugger and open a debug console",
		Long: `Connects to the Script Debugger API of the configured instance and opens an
interactive console. Breakpoints given with --break are set before connecting and
are sent as soon as the connection is established.

Lines are 1-based. Files are resolved against debugger.source_root; arguments that
do not name a local file are used as script paths as-is.

Examples:
  # Attach using dw.json from the current directory
  scriptdebug debug attach

  # Attach with breakpoints already set
  scriptdebug debug attach -b app_storefront/cartridge/controllers/Cart.js:42

  # Prepare breakpoints offline and connect later from the console
  scriptdebug debug attach --no-connect -b /app_custom/cartridge/scripts/util.js:7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(cmd.Context(), flags, breakpoints, noConnect)
		},
	}

	cmd.Flags().StringSliceVarP(&breakpoints, "break", "b", nil, "Breakpoint as <file>:<line> (repeatable)")
	cmd.Flags().BoolVar(&noConnect, "no-connect", false, "Open the console without connecting")

	return cmd
}

func runAttach(ctx context.Context, flags *helpers.GlobalFlags, breakpoints []string, noConnect bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := helpers.LoadConfig(flags)
	if err != nil {
		return err
	}
	logger := helpers.NewLogger(cfg, os.Stderr)

	api, err := helpers.NewDebuggerClient(cfg, logger)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptStyle.Render("sdb> "),
		HistoryFile:     config.NewLoader().HistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer cerrors.DeferClose(logger, rl, "failed to close readline")

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "scriptdebug",
		Tags:     map[string]string{"host": cfg.Server.Hostname},
		Reporter: logging.NewStatsReporter(logger),
	}, constants.MetricsReportInterval)
	defer cerrors.DeferClose(logger, closer, "failed to close metrics scope")

	var session *debugger.Session
	console := NewConsole(rl.Stdout(), cfg.Debugger.SourceRoot, func(ctx context.Context) error {
		return connectWithRetry(ctx, session, helpers.ConnectRetry(cfg), logger)
	})
	session = debugger.NewSession(
		debugger.NewRemoteClient(api),
		helpers.SessionConfig(cfg),
		console.Handlers(),
		logger,
		scope,
	)
	defer cerrors.DeferClose(logger, session, "failed to close debug session")
	console.Bind(session)

	fmt.Fprintf(rl.Stdout(), "Script debugger for %s (client %s). Type 'help' for commands.\n",
		cfg.Server.Hostname, api.ClientID())

	if err := addBreakpoints(ctx, console, breakpoints); err != nil {
		return err
	}

	if !noConnect {
		if _, err := console.Execute(ctx, "connect"); err != nil {
			logger.Debug().Err(err).Msg("Initial connect failed")
		}
	}

	return console.Run(ctx, rl)
}

// addBreakpoints sets the breakpoints given on the command line.
func addBreakpoints(ctx context.Context, console *Console, locations []string) error {
	for _, loc := range locations {
		if _, err := console.Execute(ctx, "break "+loc); err != nil {
			return fmt.Errorf("--break %s: %w", loc, err)
		}
	}
	return nil
}

// connectWithRetry connects the session under the configured retry policy. Failures
// are already reported through the session handlers, so only the outcome is returned.
func connectWithRetry(ctx context.Context, session *debugger.Session, cfg retry.Config, logger zerolog.Logger) error {
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Connect failed, retrying")
	}

	return retry.Do(ctx, cfg, func(int) error {
		return session.Connect(ctx)
	}, retryableConnect)
}

// retryableConnect rejects failures another attempt cannot fix.
func retryableConnect(err error) bool {
	if errors.Is(err, debugger.ErrSessionClosed) ||
		errors.Is(err, debugger.ErrConnectInProgress) ||
		errors.Is(err, context.Canceled) {
		return false
	}

	var fault *sdapi.FaultError
	if errors.As(err, &fault) && fault.Unauthorized() {
		return false
	}

	return true
}
