package sdapi

// APIVersion is the Script Debugger API version spoken by this client.
const APIVersion = "2.0"

// Thread statuses reported by the server.
const (
	ThreadStatusHalted  = "halted"
	ThreadStatusRunning = "running"
)

// Location is a position in a server-side script.
type Location struct {
	FunctionName string `json:"function_name,omitempty"`
	LineNumber   int    `json:"line_number"`
	ScriptPath   string `json:"script_path"`
}

// StackFrame is one frame of a script thread call stack.
type StackFrame struct {
	Index    int      `json:"index"`
	Location Location `json:"location"`
}

// ScriptThread is a server request thread known to the debugger.
type ScriptThread struct {
	ID        int          `json:"id"`
	Status    string       `json:"status"`
	CallStack []StackFrame `json:"call_stack,omitempty"`
}

// Halted reports whether the thread is stopped at a breakpoint.
func (t ScriptThread) Halted() bool {
	return t.Status == ThreadStatusHalted
}

// Breakpoint is a server-side breakpoint.
type Breakpoint struct {
	ID         int    `json:"id,omitempty"`
	LineNumber int    `json:"line_number"`
	ScriptPath string `json:"script_path"`
}

type breakpointsRequest struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type breakpointsResponse struct {
	Version     string       `json:"_v"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type threadsResponse struct {
	Version       string         `json:"_v"`
	ScriptThreads []ScriptThread `json:"script_threads"`
}

type faultResponse struct {
	Version string `json:"_v"`
	Fault   struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"fault"`
}
