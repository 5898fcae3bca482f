// Package errors provides structured error types for the jni-runtime library.
//
// Errors are categorized by Phase (where in the invocation pipeline the error
// occurred) and Kind (error category). The Error type carries the owning class
// and method name where one applies, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindNotFound).
//		Method("java/lang/Object", "hashCode").
//		Detail("no builtin or dynamic entry").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArgumentOverflow(need, have)
//	err := errors.SymbolNotFound("Java_java_lang_Object_hashCode")
//
// All errors implement the standard error interface and support errors.Is/As.
// The marshaller and trampoline never log or retry; every recoverable failure
// is returned as one of these values to the interpreter's call site.
package errors
