package registry

import "fmt"

// Fault is the panic value raised when the registry is used in a way that
// correct code never does: a nil diagram, a diagram type with no registered
// kind, an invalid kind, or a factory that misbehaves.
//
// Faults are not recoverable errors. Callers should not recover from them
// except at process boundaries.
type Fault struct {
	Op  string // Registry operation that failed
	Msg string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("registry: %s: %s", f.Op, f.Msg)
}

func fault(op, format string, args ...any) {
	panic(&Fault{Op: op, Msg: fmt.Sprintf(format, args...)})
}
