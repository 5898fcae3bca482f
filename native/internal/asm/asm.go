//go:build linux && amd64

// Package asm holds the stack-switch trampoline. It is a separate package
// so the assembly never mixes with cgo in the packages that use it.
package asm

// SysVCall saves the caller's stack and argument registers, records the
// caller's stack pointer at base-8, switches to the prepared alternate
// stack at sp, loads the System V argument registers from the staging area
// the marshaller wrote, and calls fn. The integer return register and the
// low 64 bits of the first vector return register are passed back
// unmodified; the caller picks one based on the descriptor's return kind.
//
// sp must point at a staging area of exactly 6 integer slots followed by
// 8 sse slots, with any stack-passed arguments above them; base-8 must be
// writable. There is no error path: a bad frame faults.
func SysVCall(fn, sp, base uintptr) (ret, fret uint64)
