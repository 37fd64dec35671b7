package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const debuggerBasePath = "/s/-/dw/debugger/v2_0"

// Request is one call received by a DebuggerServer, with the base path stripped.
type Request struct {
	Method   string
	Path     string
	ClientID string
}

// ServerBreakpoint is a breakpoint held by a DebuggerServer. Line is 1-based.
type ServerBreakpoint struct {
	ID         int    `json:"id"`
	LineNumber int    `json:"line_number"`
	ScriptPath string `json:"script_path"`
}

type serverFrame struct {
	Index    int `json:"index"`
	Location struct {
		FunctionName string `json:"function_name"`
		LineNumber   int    `json:"line_number"`
		ScriptPath   string `json:"script_path"`
	} `json:"location"`
}

type serverThread struct {
	ID        int           `json:"id"`
	Status    string        `json:"status"`
	CallStack []serverFrame `json:"call_stack"`
}

// DebuggerServer is an in-memory Script Debugger API served over httptest. It checks
// basic auth, keeps breakpoints per client and lets tests halt threads.
type DebuggerServer struct {
	*httptest.Server

	// Username and Password are the accepted credentials. Change Password with
	// SetPassword once the server is in use.
	Username string
	Password string

	mu          sync.Mutex
	requests    []Request
	connected   bool
	nextID      int
	breakpoints map[int]ServerBreakpoint
	threads     map[int]serverThread
	failures    map[string]int
}

// NewDebuggerServer starts a server accepting admin/secret. It is closed on test cleanup.
func NewDebuggerServer(t *testing.T) *DebuggerServer {
	t.Helper()

	s := &DebuggerServer{
		Username:    "admin",
		Password:    "secret",
		nextID:      1,
		breakpoints: make(map[int]ServerBreakpoint),
		threads:     make(map[int]serverThread),
		failures:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

// Host returns the host:port the server listens on.
func (s *DebuggerServer) Host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

// SetPassword changes the password the server accepts.
func (s *DebuggerServer) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Password = password
}

// Halt suspends thread id at a 1-based line of path.
func (s *DebuggerServer) Halt(id int, function, path string, line int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f serverFrame
	f.Location.FunctionName = function
	f.Location.LineNumber = line
	f.Location.ScriptPath = path
	s.threads[id] = serverThread{ID: id, Status: "halted", CallStack: []serverFrame{f}}
}

// FailNext makes the next n calls to "METHOD /path" answer 500.
func (s *DebuggerServer) FailNext(method, path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] += n
}

// Connected reports whether a client handshake is active.
func (s *DebuggerServer) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Breakpoints returns the server's breakpoints ordered by id.
func (s *DebuggerServer) Breakpoints() []ServerBreakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedBreakpoints()
}

// Requests returns every request received so far.
func (s *DebuggerServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *DebuggerServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, debuggerBasePath)
	s.requests = append(s.requests, Request{
		Method:   r.Method,
		Path:     path,
		ClientID: r.Header.Get("x-dw-client-id"),
	})

	if user, pass, _ := r.BasicAuth(); user != s.Username || pass != s.Password {
		writeFault(w, http.StatusUnauthorized, "UnauthorizedException", "invalid credentials")
		return
	}

	if key := r.Method + " " + path; s.failures[key] > 0 {
		s.failures[key]--
		writeFault(w, http.StatusInternalServerError, "InternalServerError", "injected failure")
		return
	}

	switch {
	case path == "/client" && r.Method == http.MethodPost:
		s.connected = true
		w.WriteHeader(http.StatusNoContent)

	case path == "/client" && r.Method == http.MethodDelete:
		s.connected = false
		s.breakpoints = make(map[int]ServerBreakpoint)
		w.WriteHeader(http.StatusNoContent)

	case !s.connected:
		writeFault(w, http.StatusBadRequest, "DebuggerDisabledException", "no debugger client")

	case path == "/breakpoints" && r.Method == http.MethodPost:
		s.createBreakpoints(w, r)

	case strings.HasPrefix(path, "/breakpoints/") && r.Method == http.MethodDelete:
		id, err := strconv.Atoi(strings.TrimPrefix(path, "/breakpoints/"))
		if _, ok := s.breakpoints[id]; err != nil || !ok {
			writeFault(w, http.StatusNotFound, "BreakpointNotFoundException", "no such breakpoint")
			return
		}
		delete(s.breakpoints, id)
		w.WriteHeader(http.StatusNoContent)

	case path == "/threads" && r.Method == http.MethodGet:
		threads := make([]serverThread, 0, len(s.threads))
		for _, t := range s.threads {
			threads = append(threads, t)
		}
		sort.Slice(threads, func(i, j int) bool { return threads[i].ID < threads[j].ID })
		writeJSON(w, map[string]interface{}{"_v": "2.0", "script_threads": threads})

	case path == "/threads/reset" && r.Method == http.MethodPost:
		w.WriteHeader(http.StatusNoContent)

	case strings.HasSuffix(path, "/resume") && r.Method == http.MethodPost:
		id, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path, "/threads/"), "/resume"))
		if _, ok := s.threads[id]; !ok {
			writeFault(w, http.StatusNotFound, "ScriptThreadNotFoundException", fmt.Sprintf("thread %d not found", id))
			return
		}
		delete(s.threads, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeFault(w, http.StatusNotFound, "NotFoundException", "unknown resource")
	}
}

func (s *DebuggerServer) createBreakpoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Breakpoints []ServerBreakpoint `json:"breakpoints"`
	}
	body, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(body, &req); err != nil {
		writeFault(w, http.StatusBadRequest, "MalformedRequestException", err.Error())
		return
	}

	created := make([]ServerBreakpoint, 0, len(req.Breakpoints))
	for _, bp := range req.Breakpoints {
		bp.ID = s.nextID
		s.nextID++
		s.breakpoints[bp.ID] = bp
		created = append(created, bp)
	}
	writeJSON(w, map[string]interface{}{"_v": "2.0", "breakpoints": created})
}

func (s *DebuggerServer) sortedBreakpoints() []ServerBreakpoint {
	out := make([]ServerBreakpoint, 0, len(s.breakpoints))
	for _, bp := range s.breakpoints {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeFault(w http.ResponseWriter, status int, typ, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"_v":    "2.0",
		"fault": map[string]string{"type": typ, "message": message},
	})
}
