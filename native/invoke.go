package native

import (
	"github.com/openjkit/jni-runtime/abi"
	"github.com/openjkit/jni-runtime/errors"
)

// Invoker is the single entry point the interpreter uses to execute a
// resolved native call. It owns a pool of alternate stacks and a
// marshaller bound to the host calling convention.
type Invoker struct {
	m    *Marshaller
	pool *stackPool
}

type invokerConfig struct {
	stackSize int
	poolLimit int
}

// Option configures an Invoker.
type Option func(*invokerConfig)

// WithStackSize sets the usable size of each alternate stack.
func WithStackSize(bytes int) Option {
	return func(c *invokerConfig) { c.stackSize = bytes }
}

// WithPoolLimit caps how many idle alternate stacks are retained.
func WithPoolLimit(n int) Option {
	return func(c *invokerConfig) { c.poolLimit = n }
}

func NewInvoker(opts ...Option) *Invoker {
	cfg := invokerConfig{
		stackSize: DefaultStackSize,
		poolLimit: 8,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Invoker{
		m:    NewMarshaller(abi.SysVAMD64),
		pool: newStackPool(cfg.stackSize, cfg.poolLimit),
	}
}

// Marshaller exposes the convention policy, mainly for sizing checks.
func (iv *Invoker) Marshaller() *Marshaller {
	return iv.m
}

// Invoke marshals desc onto a fresh alternate stack, runs the trampoline,
// and returns the tagged result. Every invocation gets its own stack, so
// a native implementation may reenter Invoke with a distinct descriptor.
// All recoverable failures surface before the stack switch; after the
// switch there is no error path.
func (iv *Invoker) Invoke(desc *CallDescriptor) (Value, error) {
	if desc == nil {
		return Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil call descriptor")
	}
	stack, err := iv.pool.get()
	if err != nil {
		return Value{}, err
	}
	defer iv.pool.put(stack)

	frame, err := iv.m.Marshal(desc, stack)
	if err != nil {
		return Value{}, err
	}
	return iv.call(desc, frame)
}

// Close releases pooled alternate stacks. In-flight invocations keep
// their stacks until they return.
func (iv *Invoker) Close() {
	iv.pool.drain()
}

func tagReturn(kind Kind, ret, fret uint64) Value {
	switch kind {
	case Void:
		return Value{Kind: Void}
	case Int32:
		return Value{Kind: Int32, Bits: uint64(int64(int32(ret)))}
	case Float32:
		return Value{Kind: Float32, Bits: uint64(uint32(fret))}
	case Float64:
		return Value{Kind: Float64, Bits: fret}
	case Pointer:
		return Value{Kind: Pointer, Bits: ret}
	default:
		return Value{Kind: Int64, Bits: ret}
	}
}
