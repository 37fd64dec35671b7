package sdapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcc-studio/scriptdebug/pkg/version"
)

type recordedRequest struct {
	method   string
	path     string
	clientID string
	user     string
	pass     string
	agent    string
	body     string
}

// fakeDebugger is a minimal in-memory Script Debugger API.
type fakeDebugger struct {
	mu          sync.Mutex
	requests    []recordedRequest
	nextID      int
	breakpoints map[int]Breakpoint
	threads     []ScriptThread
	connected   bool
}

func newFakeDebugger() *fakeDebugger {
	return &fakeDebugger{nextID: 1, breakpoints: make(map[int]Breakpoint)}
}

func (f *fakeDebugger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, pass, _ := r.BasicAuth()
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/s/-/dw/debugger/v2_0")
	f.requests = append(f.requests, recordedRequest{
		method:   r.Method,
		path:     path,
		clientID: r.Header.Get("x-dw-client-id"),
		user:     user,
		pass:     pass,
		agent:    r.UserAgent(),
		body:     string(body),
	})

	if user != "admin" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"_v":"2.0","fault":{"type":"UnauthorizedException","message":"bad credentials"}}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && path == "/client":
		f.connected = true
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && path == "/client":
		f.connected = false
		f.breakpoints = make(map[int]Breakpoint)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && path == "/threads/reset":
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && path == "/breakpoints":
		var req breakpointsRequest
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := breakpointsResponse{Version: APIVersion}
		for _, bp := range req.Breakpoints {
			bp.ID = f.nextID
			f.nextID++
			f.breakpoints[bp.ID] = bp
			resp.Breakpoints = append(resp.Breakpoints, bp)
		}
		_ = json.NewEncoder(w).Encode(resp)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/breakpoints/"):
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && path == "/threads":
		_ = json.NewEncoder(w).Encode(threadsResponse{Version: APIVersion, ScriptThreads: f.threads})
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/resume"):
		if path != "/threads/7/resume" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"_v":"2.0","fault":{"type":"ScriptThreadNotFoundException","message":"no such thread"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"_v":"2.0","id":7,"status":"running"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeDebugger) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler http.Handler, password string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		Hostname:   strings.TrimPrefix(server.URL, "http://"),
		Scheme:     "http",
		Username:   "admin",
		Password:   password,
		ClientID:   "test-client",
		HTTPClient: server.Client(),
	}, zerolog.Nop())
}

func TestClient_ConnectSendsIdentity(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "secret")

	require.NoError(t, client.Connect(context.Background()))

	req := fake.lastRequest()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/client", req.path)
	assert.Equal(t, "test-client", req.clientID)
	assert.Equal(t, "admin", req.user)
	assert.Equal(t, version.UserAgent(), req.agent)
	assert.True(t, fake.connected)
}

func TestClient_GeneratesClientID(t *testing.T) {
	client := NewClient(Config{Hostname: "example.com"}, zerolog.Nop())
	assert.True(t, strings.HasPrefix(client.ClientID(), "scriptdebug-"))
	assert.NotEqual(t, client.ClientID(), NewClient(Config{Hostname: "example.com"}, zerolog.Nop()).ClientID())
}

func TestClient_CreateBreakpoint(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "secret")

	id, err := client.CreateBreakpoint(context.Background(), 11, "app/controller.js")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	req := fake.lastRequest()
	assert.Equal(t, "/breakpoints", req.path)
	assert.JSONEq(t, `{"breakpoints":[{"line_number":11,"script_path":"/app/controller.js"}]}`, req.body)

	id, err = client.CreateBreakpoint(context.Background(), 3, "/app/model.js")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.breakpoints, 2)
}

func TestClient_CreateBreakpoint_EmptyResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_v":"2.0","breakpoints":[]}`))
	}), "secret")

	_, err := client.CreateBreakpoint(context.Background(), 1, "a.js")
	assert.ErrorIs(t, err, ErrNoBreakpoint)
}

func TestClient_DeleteBreakpoint(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "secret")

	require.NoError(t, client.DeleteBreakpoint(context.Background(), 5))
	req := fake.lastRequest()
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/breakpoints/5", req.path)
}

func TestClient_Threads(t *testing.T) {
	fake := newFakeDebugger()
	fake.threads = []ScriptThread{
		{
			ID:     7,
			Status: ThreadStatusHalted,
			CallStack: []StackFrame{{
				Index:    0,
				Location: Location{FunctionName: "show()", LineNumber: 11, ScriptPath: "/app/controller.js"},
			}},
		},
		{ID: 8, Status: ThreadStatusRunning},
	}
	client := newTestClient(t, fake, "secret")

	threads, err := client.Threads(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.True(t, threads[0].Halted())
	assert.False(t, threads[1].Halted())
	assert.Equal(t, "show()", threads[0].CallStack[0].Location.FunctionName)
}

func TestClient_Resume(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "secret")

	require.NoError(t, client.Resume(context.Background(), 7))
	assert.Equal(t, "/threads/7/resume", fake.lastRequest().path)

	err := client.Resume(context.Background(), 42)
	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "ScriptThreadNotFoundException", fe.Type)
	assert.Contains(t, err.Error(), "no such thread")
}

func TestClient_KeepAliveAndDisconnect(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "secret")

	require.NoError(t, client.Connect(context.Background()))
	require.NoError(t, client.KeepAlive(context.Background()))
	assert.Equal(t, "/threads/reset", fake.lastRequest().path)

	require.NoError(t, client.Disconnect(context.Background()))
	assert.False(t, fake.connected)
}

func TestClient_Unauthorized(t *testing.T) {
	fake := newFakeDebugger()
	client := newTestClient(t, fake, "wrong")

	err := client.Connect(context.Background())
	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Unauthorized())
	assert.Equal(t, "UnauthorizedException", fe.Type)
}

func TestClient_FaultWithoutBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), "secret")

	err := client.Connect(context.Background())
	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), "secret")
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.KeepAlive(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
