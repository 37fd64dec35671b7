package debugger

import (
	"context"

	"github.com/sfcc-studio/scriptdebug/internal/sdapi"
)

//go:generate mockgen -source=client.go -destination=debuggermock/client_mock.go -package=debuggermock

// Client is the remote debugger the session drives. Calls may block on the network;
// the session never invokes them while holding its lock.
type Client interface {
	// Connect performs the handshake that creates the debugger client on the server.
	Connect(ctx context.Context) error
	// Disconnect removes the debugger client from the server.
	Disconnect(ctx context.Context) error
	// CreateBreakpoint sets a breakpoint at a 1-based line and returns the server id.
	CreateBreakpoint(ctx context.Context, line int, path string) (int, error)
	// DeleteBreakpoint removes a breakpoint by server id.
	DeleteBreakpoint(ctx context.Context, id int) error
	// Resume continues a halted thread.
	Resume(ctx context.Context, threadID int) error
	// Threads lists the server's script threads; halted ones are suspend events.
	Threads(ctx context.Context) ([]Thread, error)
	// KeepAlive keeps the server from expiring an idle client.
	KeepAlive(ctx context.Context) error
}

type remoteClient struct {
	api *sdapi.Client
}

// NewRemoteClient adapts a Script Debugger API client to Client.
func NewRemoteClient(api *sdapi.Client) Client {
	return &remoteClient{api: api}
}

func (c *remoteClient) Connect(ctx context.Context) error {
	return c.api.Connect(ctx)
}

func (c *remoteClient) Disconnect(ctx context.Context) error {
	return c.api.Disconnect(ctx)
}

func (c *remoteClient) CreateBreakpoint(ctx context.Context, line int, path string) (int, error) {
	return c.api.CreateBreakpoint(ctx, line, path)
}

func (c *remoteClient) DeleteBreakpoint(ctx context.Context, id int) error {
	return c.api.DeleteBreakpoint(ctx, id)
}

func (c *remoteClient) Resume(ctx context.Context, threadID int) error {
	return c.api.Resume(ctx, threadID)
}

func (c *remoteClient) KeepAlive(ctx context.Context) error {
	return c.api.KeepAlive(ctx)
}

func (c *remoteClient) Threads(ctx context.Context) ([]Thread, error) {
	scriptThreads, err := c.api.Threads(ctx)
	if err != nil {
		return nil, err
	}

	threads := make([]Thread, 0, len(scriptThreads))
	for _, st := range scriptThreads {
		threads = append(threads, convertThread(st))
	}
	return threads, nil
}

// convertThread maps a wire thread to a Thread, moving lines to the 0-based convention.
func convertThread(st sdapi.ScriptThread) Thread {
	t := Thread{ID: st.ID, Halted: st.Halted()}
	for _, f := range st.CallStack {
		line := f.Location.LineNumber - 1
		if line < 0 {
			line = 0
		}
		t.Frames = append(t.Frames, Frame{
			Index:    f.Index,
			Function: f.Location.FunctionName,
			Path:     f.Location.ScriptPath,
			Line:     line,
		})
	}
	return t
}
