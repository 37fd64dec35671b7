// Package sdapi is an HTTP client for the commerce-platform Script Debugger API.
//
// Every request carries HTTP basic auth with Business Manager credentials and the
// x-dw-client-id header identifying this debugger client. A client must be created with
// Connect before breakpoints can be set, and must be kept alive (KeepAlive) while idle or
// the server discards it together with its breakpoints.
package sdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sfcc-studio/scriptdebug/internal/constants"
	cerrors "github.com/sfcc-studio/scriptdebug/internal/errors"
	"github.com/sfcc-studio/scriptdebug/pkg/version"
)

// Config configures a Client.
type Config struct {
	Hostname string
	// Scheme defaults to https.
	Scheme   string
	Username string
	Password string
	// ClientID is sent as x-dw-client-id; a random one is generated when empty.
	ClientID string
	// HTTPTimeout applies when HTTPClient is nil.
	HTTPTimeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to one instance's Script Debugger API.
type Client struct {
	logger   zerolog.Logger
	client   *http.Client
	baseURL  string
	username string
	password string
	clientID string
}

// NewClient creates a new Script Debugger API client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "scriptdebug-" + uuid.NewString()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		logger:   logger.With().Str("component", "sdapi").Str("host", cfg.Hostname).Logger(),
		client:   httpClient,
		baseURL:  fmt.Sprintf("%s://%s%s", scheme, cfg.Hostname, constants.SDAPIBasePath),
		username: cfg.Username,
		password: cfg.Password,
		clientID: clientID,
	}
}

// ClientID returns the debugger client identifier sent to the server.
func (c *Client) ClientID() string {
	return c.clientID
}

// Connect creates the debugger client on the server. This is the session handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/client", nil, nil, http.StatusNoContent)
}

// Disconnect deletes the debugger client; the server drops its breakpoints and resumes
// its halted threads.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/client", nil, nil, http.StatusNoContent)
}

// KeepAlive resets the client's idle timer.
func (c *Client) KeepAlive(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/threads/reset", nil, nil, http.StatusNoContent)
}

// CreateBreakpoint sets a breakpoint at a 1-based line of a script and returns its id.
// scriptPath is relative to the cartridge root; a leading slash is added when missing.
func (c *Client) CreateBreakpoint(ctx context.Context, line int, scriptPath string) (int, error) {
	req := breakpointsRequest{
		Breakpoints: []Breakpoint{{
			LineNumber: line,
			ScriptPath: normalizeScriptPath(scriptPath),
		}},
	}

	var resp breakpointsResponse
	if err := c.do(ctx, http.MethodPost, "/breakpoints", req, &resp, http.StatusOK); err != nil {
		return 0, err
	}

	for _, bp := range resp.Breakpoints {
		if bp.LineNumber == line && bp.ScriptPath == req.Breakpoints[0].ScriptPath {
			return bp.ID, nil
		}
	}
	if len(resp.Breakpoints) == 1 {
		return resp.Breakpoints[0].ID, nil
	}

	return 0, ErrNoBreakpoint
}

// DeleteBreakpoint removes a breakpoint by its server id.
func (c *Client) DeleteBreakpoint(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/breakpoints/%d", id), nil, nil, http.StatusNoContent)
}

// Threads lists the script threads currently known to the debugger.
func (c *Client) Threads(ctx context.Context) ([]ScriptThread, error) {
	var resp threadsResponse
	if err := c.do(ctx, http.MethodGet, "/threads", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.ScriptThreads, nil
}

// Resume continues a halted script thread.
func (c *Client) Resume(ctx context.Context, threadID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%d/resume", threadID), nil, nil, http.StatusOK, http.StatusNoContent)
}

// do performs one API call. in is JSON-encoded when non-nil; out is decoded when non-nil
// and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, expected ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set(constants.ClientIDHeader, c.clientID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Trace().Str("method", method).Str("path", path).Msg("Sending request")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer cerrors.DeferClose(c.logger, resp.Body, "failed to close response body")

	if !statusIn(resp.StatusCode, expected) {
		return c.fault(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}

// fault builds a FaultError from an unexpected response, reading the fault document
// when the server sent one.
func (c *Client) fault(method, path string, resp *http.Response) error {
	fe := &FaultError{
		Method: method,
		Path:   path,
		Status: resp.StatusCode,
	}

	var doc faultResponse
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 && json.Unmarshal(data, &doc) == nil {
		fe.Type = doc.Fault.Type
		fe.Message = doc.Fault.Message
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("fault", fe.Type).
		Msg("Request rejected")

	return fe
}

func statusIn(status int, expected []int) bool {
	for _, s := range expected {
		if status == s {
			return true
		}
	}
	return false
}

func normalizeScriptPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
