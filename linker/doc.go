// Package linker loads native shared objects and resolves JNI-mangled
// exports from them.
//
// # Main Types
//
//   - Linker: owns loaded libraries, resolves symbols in load order
//   - Library: one loaded shared object and its JNI_OnLoad export
//
// # Resolution Order
//
//  1. Long-form symbol (class + name + mangled argument descriptor)
//  2. Short-form symbol (class + name)
//  3. SymbolNotFound on miss
//
// Duplicate loads of one path are coalesced. Linker is safe for
// concurrent use.
package linker
