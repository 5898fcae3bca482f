// Package jniruntime provides the native invocation subsystem of a
// JVM-style bytecode runtime.
//
// This library gives an interpreter everything it needs to call
// arbitrary native function pointers whose argument shapes are only
// known at runtime: argument marshalling onto a dedicated alternate
// stack, a hand-built stack-switch trampoline for the host calling
// convention, a registry binding declared native methods to builtin or
// dynamically loaded implementations, and the monitors and coordination
// thread that make the path safe from multiple interpreter threads.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jniruntime/          Root package documentation
//	├── runtime/         High-level facade: load libraries, register and invoke natives
//	├── native/          Call descriptors, alternate stacks, marshalling, the trampoline
//	├── abi/             Calling-convention layout policy (System V AMD64)
//	├── descriptor/      JVM method descriptor parsing
//	├── linker/          Shared-object loading and JNI symbol mangling
//	├── registry/        Native method table with lazy, monitor-guarded resolution
//	├── monitor/         Reentrant FIFO monitors with wait/notify
//	├── coord/           Coordination goroutine owning thread-attach bookkeeping
//	├── jdk/             Builtin standard library shims (jio printf, stream hooks)
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Load a library and invoke a native method:
//
//	rt, err := runtime.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	if _, err := rt.LoadLibrary("libdemo.so"); err != nil {
//	    log.Fatal(err)
//	}
//
//	key := registry.Key{Class: "demo/Math", Name: "add", Desc: "(II)I"}
//	if err := rt.DeclareNative(tid, key); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := rt.Call(tid, key, []native.Argument{
//	    native.Int32Arg(7),
//	    native.Int32Arg(13),
//	})
//	fmt.Println(v.Int32()) // 20
//
// # Invocation Path
//
// A call descriptor is immutable and owned by one invocation. The
// marshaller sizes and lays out every argument before the stack switch,
// so all recoverable failures surface as errors to the caller; once the
// trampoline switches stacks there is no error path, only the target's
// return value. Each invocation gets its own alternate stack, which is
// what makes nested native calls safe.
//
// # Thread Safety
//
// Runtime, Linker, and Registry are safe for concurrent use. Callers
// identify themselves with a monitor.ThreadID; first-use resolution of
// a native method has exactly one winner, and the coordination
// goroutine serializes per-thread initialization. A native call that
// blocks is not interruptible by the runtime.
//
// # Portability
//
// The trampoline targets the System V AMD64 convention on linux.
// Other platforms build with every package intact, but dynamic loading
// and trampoline invocation report unsupported; porting means writing a
// new trampoline variant and layout policy, not touching call sites.
package jniruntime
