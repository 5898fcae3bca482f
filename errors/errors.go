package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the invocation pipeline the error occurred
type Phase string

const (
	PhaseDescriptor Phase = "descriptor" // method descriptor parsing
	PhaseMarshal    Phase = "marshal"    // argument layout on the alternate stack
	PhaseInvoke     Phase = "invoke"     // trampoline entry
	PhaseResolve    Phase = "resolve"    // native method registry lookup
	PhaseLink       Phase = "link"       // shared library loading and symbols
	PhaseMonitor    Phase = "monitor"    // monitor enter/exit/wait
	PhaseCoord      Phase = "coord"      // coordination thread requests
	PhaseRuntime    Phase = "runtime"    // runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindArgumentOverflow    Kind = "argument_overflow"
	KindInvalidDescriptor   Kind = "invalid_descriptor"
	KindTypeMismatch        Kind = "type_mismatch"
	KindSymbolNotFound      Kind = "symbol_not_found"
	KindLinkage             Kind = "linkage"
	KindIllegalMonitorState Kind = "illegal_monitor_state"
	KindNotFound            Kind = "not_found"
	KindAlreadyRegistered   Kind = "already_registered"
	KindUnsupported         Kind = "unsupported"
	KindAllocation          Kind = "allocation"
	KindShutdown            Kind = "shutdown"
	KindInvalidInput        Kind = "invalid_input"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Method string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" || e.Method != "" {
		b.WriteString(" at ")
		b.WriteString(e.Class)
		if e.Method != "" {
			b.WriteString("::")
			b.WriteString(e.Method)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Method sets the owning class and method name
func (b *Builder) Method(class, method string) *Builder {
	b.err.Class = class
	b.err.Method = method
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ArgumentOverflow reports an argument list that does not fit the
// alternate stack. Always produced before any stack switch.
func ArgumentOverflow(need, have int) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindArgumentOverflow,
		Detail: fmt.Sprintf("arguments need %d bytes, alternate stack has %d", need, have),
	}
}

// InvalidDescriptor creates a descriptor parsing error
func InvalidDescriptor(desc, detail string) *Error {
	return &Error{
		Phase:  PhaseDescriptor,
		Kind:   KindInvalidDescriptor,
		Detail: fmt.Sprintf("%s in %q", detail, desc),
		Value:  desc,
	}
}

// SymbolNotFound reports a native symbol missing from all loaded libraries
func SymbolNotFound(symbol string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindSymbolNotFound,
		Detail: fmt.Sprintf("symbol %q not found in any loaded library", symbol),
		Value:  symbol,
	}
}

// Linkage wraps a library load or symbol resolution failure
func Linkage(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindLinkage,
		Detail: detail,
		Cause:  cause,
	}
}

// IllegalMonitorState reports a monitor operation by a thread that does
// not own the monitor
func IllegalMonitorState(detail string) *Error {
	return &Error{
		Phase:  PhaseMonitor,
		Kind:   KindIllegalMonitorState,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// AlreadyRegistered reports a duplicate native method registration
func AlreadyRegistered(class, method, desc string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAlreadyRegistered,
		Class:  class,
		Method: method,
		Detail: fmt.Sprintf("native already registered for descriptor %s", desc),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// AllocationFailed creates an alternate stack allocation error
func AllocationFailed(size int, cause error) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to map %d byte alternate stack", size),
		Cause:  cause,
	}
}

// Shutdown reports a request made after the target was stopped
func Shutdown(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShutdown,
		Detail: fmt.Sprintf("%s is shut down", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
