// Package registry maps declared native methods to their
// implementations: runtime-provided builtins or lazily resolved exports
// from loaded shared libraries. All registry state is guarded by one
// monitor, so concurrent first-use resolution of a key has exactly one
// winner and the cached address is write-once.
package registry
