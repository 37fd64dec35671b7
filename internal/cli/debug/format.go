package debug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sfcc-studio/scriptdebug/internal/debugger"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	threadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// breakpointRow is one line of the breakpoints table.
type breakpointRow struct {
	Location string `header:"BREAKPOINT" json:"location" yaml:"location"`
	ID       string `header:"ID" json:"id" yaml:"id"`
	Status   string `header:"STATUS" json:"status" yaml:"status"`
}

// frameRow is one line of the threads table.
type frameRow struct {
	Thread   int    `header:"THREAD" json:"thread" yaml:"thread"`
	Frame    int    `header:"FRAME" json:"frame" yaml:"frame"`
	Function string `header:"FUNCTION" json:"function" yaml:"function"`
	Location string `header:"LOCATION" json:"location" yaml:"location"`
}

func breakpointRows(bps []debugger.Breakpoint) []breakpointRow {
	rows := make([]breakpointRow, 0, len(bps))
	for _, bp := range bps {
		row := breakpointRow{Location: bp.Key.String(), ID: "-"}
		if bp.RemoteID != 0 {
			row.ID = fmt.Sprintf("%d", bp.RemoteID)
		}
		switch {
		case bp.Verified:
			row.Status = "verified"
		case bp.Pending:
			row.Status = "pending"
		default:
			row.Status = "unverified"
		}
		rows = append(rows, row)
	}
	return rows
}

func frameRows(stacks []debugger.ExecutionStack) []frameRow {
	var rows []frameRow
	for _, s := range stacks {
		for _, f := range s.Frames {
			rows = append(rows, frameRow{
				Thread:   s.ThreadID,
				Frame:    f.Index,
				Function: f.Function,
				Location: fmt.Sprintf("%s:%d", f.Path, f.Line+1),
			})
		}
	}
	return rows
}

func formatStatus(state debugger.ConnectionState, message string) string {
	style := warnStyle
	if state == debugger.StateConnected {
		style = okStyle
	}
	return style.Render(fmt.Sprintf("[%s] %s", state, message))
}

func formatVerified(key debugger.Key) string {
	return okStyle.Render(fmt.Sprintf("Breakpoint %s verified", key))
}

func formatUnverified(key debugger.Key) string {
	return warnStyle.Render(fmt.Sprintf("Breakpoint %s unverified", key))
}

func formatSuspended(stack debugger.ExecutionStack) string {
	var b strings.Builder

	header := fmt.Sprintf("Thread %d suspended", stack.ThreadID)
	if top, ok := stack.Top(); ok {
		header += fmt.Sprintf(" at %s:%d", top.Path, top.Line+1)
		if top.Function != "" {
			header += " in " + top.Function
		}
	}
	b.WriteString(threadStyle.Render(header))

	for _, f := range stack.Frames {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("  #%d %s (%s:%d)", f.Index, f.Function, f.Path, f.Line+1)))
	}

	return b.String()
}

func formatResumed(threadID int) string {
	return hintStyle.Render(fmt.Sprintf("Thread %d resumed", threadID))
}

func formatFailure(err error) string {
	var (
		syncErr   *debugger.SyncError
		desyncErr *debugger.DesyncError
		connErr   *debugger.ConnectionError
	)

	prefix := "Error"
	switch {
	case errors.As(err, &syncErr):
		prefix = "Breakpoint error"
	case errors.As(err, &desyncErr):
		prefix = "Execution error"
	case errors.As(err, &connErr):
		prefix = "Connection error"
	}

	return errorStyle.Render(fmt.Sprintf("%s: %v", prefix, err))
}

const helpText = `Commands:
  break <file>:<line>     Set a breakpoint (alias: b)
  clear <file>:<line>     Remove a breakpoint (alias: d, delete)
  resume [thread]         Resume a suspended thread (alias: c, continue)
  threads                 Show suspended threads and call stacks (alias: bt, stack)
  breakpoints             List breakpoints (alias: bl)
  connect                 Connect to the instance
  disconnect              Disconnect; breakpoints are kept for the next connection
  status                  Show the connection state
  help                    Show this help
  quit                    Disconnect and exit (alias: exit, q, Ctrl+D)

<file> is a path under the source root or a script path such as
/app_storefront/cartridge/controllers/Cart.js. Lines are 1-based.`
