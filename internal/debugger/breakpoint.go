package debugger

import "fmt"

// Key identifies a breakpoint as the host knows it, independent of any server id.
// Path is relative to the source root (for example "/app_store/cartridge/controllers/Cart.js").
// Line is 0-based, as editors report it; the server receives Line+1.
type Key struct {
	Path string
	Line int
}

// String formats the key as path:line with a 1-based line.
func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Path, k.Line+1)
}

func (k Key) valid() bool {
	return k.Path != "" && k.Line >= 0
}

// Op is a breakpoint operation sent to the server.
type Op int

const (
	// OpCreate creates a breakpoint on the server.
	OpCreate Op = iota + 1
	// OpDelete deletes a breakpoint from the server.
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return "none"
	}
}

// Breakpoint is a read-only snapshot of one breakpoint the host wants set.
type Breakpoint struct {
	Key Key
	// RemoteID is the server id, 0 while the breakpoint does not exist on the server.
	RemoteID int
	// Verified is true once the server acknowledged the breakpoint.
	Verified bool
	// Pending is true while a create or delete for the key is queued or in flight.
	Pending bool
}
