// Package native executes resolved native calls from an interpreter that
// discovers argument shapes at runtime.
//
// A CallDescriptor carries a function pointer, tagged argument words, and
// a return kind. Invoke lays the arguments out on a per-call alternate
// stack according to the host calling convention, switches onto that stack
// through a hand-built trampoline, performs the raw indirect call, and
// restores the caller's stack and registers before tagging the result.
//
// Division of labor:
//
//   - abi.Layout decides which argument goes to which register or stack
//     slot; it is pure policy and fully testable.
//   - Marshaller writes the words and is the last point where an invalid
//     call (oversized argument list) can be reported as an error.
//   - internal/asm performs the switch. It has no checks and no error
//     path; misuse past the marshaller is a fault, not an error value.
//
// Nothing in this package is shared between invocations: each call owns
// its descriptor and its stack, so concurrent interpreter threads and
// reentrant native calls need no locking here.
package native
