// Package descriptor parses JVM method descriptors into the kinds the
// marshalling layer understands. Reference kinds all reduce to Pointer;
// the interpreter's two-slot accounting for long and double is carried
// as a flag, not a second entry.
package descriptor
