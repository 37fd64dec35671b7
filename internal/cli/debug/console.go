package debug

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/sfcc-studio/scriptdebug/internal/cli/helpers"
	"github.com/sfcc-studio/scriptdebug/internal/debugger"
)

// Session is the part of *debugger.Session the console drives.
type Session interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	AddBreakpoint(key debugger.Key) error
	RemoveBreakpoint(key debugger.Key) error
	Resume(threadID int) error
	State() debugger.ConnectionState
	Breakpoints() []debugger.Breakpoint
	Stacks() []debugger.ExecutionStack
}

// Console turns command lines into session operations and prints session notifications.
type Console struct {
	session    Session
	sourceRoot string
	connect    func(ctx context.Context) error

	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console writing to out. connect is used by the connect command;
// when nil the session's Connect is called directly.
func NewConsole(out io.Writer, sourceRoot string, connect func(ctx context.Context) error) *Console {
	return &Console{
		out:        out,
		sourceRoot: sourceRoot,
		connect:    connect,
	}
}

// Bind attaches the session. It is separate from NewConsole because the session needs
// the console's handlers when it is created.
func (c *Console) Bind(session Session) {
	c.session = session
	if c.connect == nil {
		c.connect = session.Connect
	}
}

// Handlers returns session handlers that print each notification.
func (c *Console) Handlers() debugger.Handlers {
	return debugger.Handlers{
		OnBreakpointVerified: func(key debugger.Key) {
			c.println(formatVerified(key))
		},
		OnBreakpointUnverified: func(key debugger.Key) {
			c.println(formatUnverified(key))
		},
		OnStatus: func(state debugger.ConnectionState, message string) {
			c.println(formatStatus(state, message))
		},
		OnSuspended: func(stack debugger.ExecutionStack) {
			c.println(formatSuspended(stack))
		},
		OnResumed: func(threadID int) {
			c.println(formatResumed(threadID))
		},
		OnFailed: func(err error) {
			c.println(formatFailure(err))
		},
	}
}

// SetOutput swaps the writer, e.g. for readline's stdout once the prompt is running.
func (c *Console) SetOutput(out io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = out
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, s)
}

func (c *Console) render(data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (&helpers.TableFormatter{}).Format(data, c.out)
}

// Execute runs one command line. quit reports that the user asked to leave.
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "break", "b":
		key, err := c.location(args)
		if err != nil {
			return false, err
		}
		return false, c.session.AddBreakpoint(key)

	case "clear", "delete", "d":
		key, err := c.location(args)
		if err != nil {
			return false, err
		}
		return false, c.session.RemoveBreakpoint(key)

	case "resume", "continue", "c":
		threadID, err := c.resumeTarget(args)
		if err != nil {
			return false, err
		}
		return false, c.session.Resume(threadID)

	case "threads", "stack", "bt":
		stacks := c.session.Stacks()
		if len(stacks) == 0 {
			c.println(hintStyle.Render("No suspended threads"))
			return false, nil
		}
		return false, c.render(frameRows(stacks))

	case "breakpoints", "bl":
		bps := c.session.Breakpoints()
		if len(bps) == 0 {
			c.println(hintStyle.Render("No breakpoints"))
			return false, nil
		}
		return false, c.render(breakpointRows(bps))

	case "status":
		c.println(fmt.Sprintf("State: %s", c.session.State()))
		return false, nil

	case "connect":
		return false, c.connect(ctx)

	case "disconnect":
		return false, c.session.Disconnect(ctx)

	case "help", "?":
		c.println(helpText)
		return false, nil

	case "quit", "exit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q, type 'help' for a list of commands", fields[0])
	}
}

func (c *Console) location(args []string) (debugger.Key, error) {
	if len(args) != 1 {
		return debugger.Key{}, fmt.Errorf("expected <file>:<line>")
	}
	return parseLocation(c.sourceRoot, args[0])
}

// resumeTarget picks the thread to resume: the argument, or the only suspended thread.
func (c *Console) resumeTarget(args []string) (int, error) {
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid thread id %q", args[0])
		}
		return id, nil
	}

	stacks := c.session.Stacks()
	switch len(stacks) {
	case 0:
		return 0, fmt.Errorf("no suspended threads")
	case 1:
		return stacks[0].ThreadID, nil
	default:
		return 0, fmt.Errorf("%d threads are suspended, specify one", len(stacks))
	}
}

// parseLocation parses "file:line" with a 1-based line into a breakpoint key.
func parseLocation(sourceRoot, arg string) (debugger.Key, error) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 || idx == len(arg)-1 {
		return debugger.Key{}, fmt.Errorf("invalid location %q, expected <file>:<line>", arg)
	}

	line, err := strconv.Atoi(arg[idx+1:])
	if err != nil || line < 1 {
		return debugger.Key{}, fmt.Errorf("invalid line in %q", arg)
	}

	path, err := resolveScript(sourceRoot, arg[:idx])
	if err != nil {
		return debugger.Key{}, err
	}

	return debugger.Key{Path: path, Line: line - 1}, nil
}

// resolveScript maps a local file to its script path. Arguments that do not name a
// local file are taken as script paths already.
func resolveScript(sourceRoot, file string) (string, error) {
	if sourceRoot != "" {
		local := file
		if !filepath.IsAbs(local) {
			local = filepath.Join(sourceRoot, local)
		}
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return debugger.RelativePath(sourceRoot, local)
		}
		if filepath.IsAbs(file) {
			if rel, err := debugger.RelativePath(sourceRoot, file); err == nil {
				return rel, nil
			}
		}
	}

	path := filepath.ToSlash(file)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

// Run reads commands from rl until quit, Ctrl+D or ctx is done.
func (c *Console) Run(ctx context.Context, rl *readline.Instance) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			c.println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		if quit {
			return nil
		}
	}
}
