// Package abi describes hardware calling conventions as explicit policy
// objects.
//
// A Layout captures the facts the marshaller needs: how many integer and
// floating-point argument registers exist, and how the remainder spill to
// the stack. The layout is consumed before any stack switch happens, so
// every sizing error is reportable; the trampoline itself performs no
// checks.
//
// Only the System V AMD64 convention is defined. A new target gets a new
// Layout value and a matching trampoline variant with the same contract.
package abi
