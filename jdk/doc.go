// Package jdk provides the runtime-side builtin natives the standard
// library shim declares: registerNatives no-ops, the PrintStream sendIO
// output hook, and the jio formatted-print helper. Builtins run as Go
// functions and never cross the stack-switch trampoline.
package jdk
