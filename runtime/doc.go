// Package runtime assembles the native invocation subsystem behind one
// facade.
//
// # Main Types
//
//   - Runtime: loads libraries, registers natives, invokes resolved calls
//   - registry.Key: identifies a declared native method
//   - native.CallDescriptor: a fully resolved call, ready to execute
//
// # Call Paths
//
// Builtin natives dispatch to Go functions directly. Dynamic natives
// resolve a JNI-mangled export on first use, then run through the
// argument marshaller and the stack-switch trampoline.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. Callers identify themselves with
// a monitor.ThreadID; the first call from a thread attaches it through
// the coordination goroutine.
package runtime
