// Package debug provides the CLI commands that drive a remote script debug session.
//
// The attach command loads the configuration, connects a debugger.Session to the
// instance's Script Debugger API and opens an interactive console. Breakpoints may be
// set before the connection exists; they are queued and sent once the handshake
// succeeds. Session notifications (verified breakpoints, suspended threads, connection
// changes, failures) are printed above the prompt as they arrive.
//
// Console commands:
//   - break <file>:<line>: set a breakpoint
//   - clear <file>:<line>: remove a breakpoint
//   - resume [thread]: resume a suspended thread
//   - threads: show suspended threads and their call stacks
//   - breakpoints: list breakpoints and their state
//   - connect / disconnect / status
//   - help / quit
package debug
