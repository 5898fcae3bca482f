package runtime

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/openjkit/jni-runtime/coord"
	"github.com/openjkit/jni-runtime/descriptor"
	"github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/jdk"
	"github.com/openjkit/jni-runtime/linker"
	"github.com/openjkit/jni-runtime/monitor"
	"github.com/openjkit/jni-runtime/native"
	"github.com/openjkit/jni-runtime/registry"
)

// Runtime is the native invocation subsystem's facade. The interpreter
// declares native methods, loads libraries, and invokes resolved calls
// through it; everything below (marshalling, the stack switch, symbol
// resolution, coordination) is wired here.
type Runtime struct {
	invoker  *native.Invoker
	linker   *linker.Linker
	registry *registry.Registry
	coord    *coord.Coordinator
	shims    *jdk.Shims
	closed   atomic.Bool
}

type config struct {
	invokerOpts []native.Option
	shimOpts    []jdk.Option
	logger      *zap.Logger
}

// Option configures a Runtime.
type Option func(*config)

// WithStackSize sets the usable size of each alternate stack.
func WithStackSize(bytes int) Option {
	return func(c *config) {
		c.invokerOpts = append(c.invokerOpts, native.WithStackSize(bytes))
	}
}

// WithStackPoolLimit caps how many idle alternate stacks are retained.
func WithStackPoolLimit(n int) Option {
	return func(c *config) {
		c.invokerOpts = append(c.invokerOpts, native.WithPoolLimit(n))
	}
}

// WithLogger installs a logger across the runtime's packages.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithShimOptions forwards options to the standard library shims, such
// as redirected output streams.
func WithShimOptions(opts ...jdk.Option) Option {
	return func(c *config) { c.shimOpts = append(c.shimOpts, opts...) }
}

// New assembles a runtime: linker, registry, coordination thread, and
// the builtin shims, ready for the first native call.
func New(opts ...Option) (*Runtime, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger != nil {
		SetLogger(cfg.logger)
		linker.SetLogger(cfg.logger.Named("linker"))
		registry.SetLogger(cfg.logger.Named("registry"))
		coord.SetLogger(cfg.logger.Named("coord"))
	}

	lk := linker.New()
	r := &Runtime{
		invoker:  native.NewInvoker(cfg.invokerOpts...),
		linker:   lk,
		registry: registry.New(lk),
		coord:    coord.New(),
		shims:    jdk.NewShims(cfg.shimOpts...),
	}
	if err := r.shims.Register(0, r.registry); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Close stops the coordination thread and releases stacks and loaded
// libraries. In-flight invocations keep their resources until they
// return; new requests fail with a shutdown error.
func (r *Runtime) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.coord.Stop()
	r.invoker.Close()
	r.linker.Close()
}

// LoadLibrary opens a native shared object and makes its exports
// resolvable. Loading the same path twice returns the original library.
func (r *Runtime) LoadLibrary(path string) (*linker.Library, error) {
	if r.closed.Load() {
		return nil, errors.Shutdown(errors.PhaseRuntime, "runtime")
	}
	return r.linker.Load(path)
}

// RegisterBuiltin binds a declared native method to a runtime-provided
// Go implementation.
func (r *Runtime) RegisterBuiltin(tid monitor.ThreadID, key registry.Key, fn registry.BuiltinFunc) error {
	if err := r.attach(tid); err != nil {
		return err
	}
	return r.registry.RegisterBuiltin(tid, key, fn)
}

// DeclareNative records that a native method will be satisfied by a
// loaded library export, resolved lazily on first call.
func (r *Runtime) DeclareNative(tid monitor.ThreadID, key registry.Key) error {
	if err := r.attach(tid); err != nil {
		return err
	}
	return r.registry.RegisterDynamic(tid, key)
}

// ResolveNative returns the binding for a declared native method,
// performing first-use symbol resolution for dynamic entries.
func (r *Runtime) ResolveNative(tid monitor.ThreadID, key registry.Key) (registry.Entry, error) {
	if err := r.attach(tid); err != nil {
		return registry.Entry{}, err
	}
	return r.registry.Resolve(tid, key)
}

// InvokeNative executes an already resolved call descriptor on the
// calling thread. This is the trampoline path; builtins never reach it.
func (r *Runtime) InvokeNative(tid monitor.ThreadID, desc *native.CallDescriptor) (native.Value, error) {
	if err := r.attach(tid); err != nil {
		return native.Value{}, err
	}
	return r.invoker.Invoke(desc)
}

// Call resolves a declared native method and invokes it with args. The
// method descriptor supplies the return kind and is checked against the
// argument kinds before anything is marshalled. Builtin entries run as
// Go functions; dynamic entries go through the trampoline.
func (r *Runtime) Call(tid monitor.ThreadID, key registry.Key, args []native.Argument) (native.Value, error) {
	if err := r.attach(tid); err != nil {
		return native.Value{}, err
	}

	method, err := descriptor.ParseMethod(key.Desc)
	if err != nil {
		return native.Value{}, err
	}
	if err := checkArgs(key, method, args); err != nil {
		return native.Value{}, err
	}

	entry, err := r.registry.Resolve(tid, key)
	if err != nil {
		return native.Value{}, err
	}
	if entry.IsBuiltin() {
		return entry.Builtin(args)
	}

	desc, err := native.NewCallDescriptor(entry.Target, method.Return.Kind, args)
	if err != nil {
		return native.Value{}, err
	}
	return r.invoker.Invoke(desc)
}

// NewMonitor hands out a monitor for a runtime object. The interpreter
// owns the association between objects and monitors.
func (r *Runtime) NewMonitor() *monitor.Monitor {
	return monitor.New()
}

// Attached reports whether tid has made a native call yet.
func (r *Runtime) Attached(tid monitor.ThreadID) (bool, error) {
	return r.coord.Attached(tid)
}

// Natives returns every registered native method key.
func (r *Runtime) Natives(tid monitor.ThreadID) []registry.Key {
	return r.registry.Keys(tid)
}

// Libraries returns the loaded native libraries in load order.
func (r *Runtime) Libraries() []*linker.Library {
	return r.linker.Libraries()
}

// attach runs first-call bookkeeping for tid through the coordination
// thread. After Close it converts every entry point into a shutdown
// error instead of touching stopped machinery.
func (r *Runtime) attach(tid monitor.ThreadID) error {
	if r.closed.Load() {
		return errors.Shutdown(errors.PhaseRuntime, "runtime")
	}
	first, err := r.coord.Attach(tid)
	if err != nil {
		return err
	}
	if first {
		Logger().Debug("interpreter thread attached", zap.Int64("thread", int64(tid)))
	}
	return nil
}

// checkArgs verifies the argument list against the parsed descriptor.
func checkArgs(key registry.Key, method descriptor.Method, args []native.Argument) error {
	if len(args) != method.Arity() {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Method(key.Class, key.Name).
			Detail("descriptor %s declares %d parameters, got %d arguments",
				key.Desc, method.Arity(), len(args)).
			Build()
	}
	for i, p := range method.Params {
		if args[i].Kind != p.Kind {
			return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Method(key.Class, key.Name).
				Detail("parameter %d is %s, got %s argument", i, p.Kind, args[i].Kind).
				Build()
		}
	}
	return nil
}
