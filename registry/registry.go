package registry

import (
	"go.uber.org/zap"

	"github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/monitor"
	"github.com/openjkit/jni-runtime/native"
)

// Key identifies one declared native method. Lookup is by exact key;
// overloads differ in Desc.
type Key struct {
	Class string
	Name  string
	Desc  string
}

// BuiltinFunc is a runtime-provided native implementation. It receives
// the call's marshalled arguments and produces a tagged value directly,
// without going through the stack switch.
type BuiltinFunc func(args []native.Argument) (native.Value, error)

// Entry is a resolved native binding: a builtin function, or the
// address of a dynamically loaded export.
type Entry struct {
	Builtin BuiltinFunc
	Target  uintptr
}

// IsBuiltin reports whether the entry dispatches to a runtime-provided
// implementation.
func (e Entry) IsBuiltin() bool { return e.Builtin != nil }

// SymbolResolver resolves a native method to an export address.
// *linker.Linker satisfies it.
type SymbolResolver interface {
	ResolveNative(class, name, desc string) (uintptr, error)
}

// record is the registry's internal entry state. target is write-once:
// it transitions from zero to the winner's resolved address under the
// registry monitor and never changes again.
type record struct {
	builtin  BuiltinFunc
	target   uintptr
	resolved bool
}

// Registry maps native method keys to their implementations. Dynamic
// entries resolve lazily on first use; resolution is serialized by a
// monitor so concurrent first calls produce exactly one winner, with
// every loser observing the winner's cached entry or the same failure.
type Registry struct {
	mon      *monitor.Monitor
	resolver SymbolResolver
	entries  map[Key]*record
}

func New(resolver SymbolResolver) *Registry {
	return &Registry{
		mon:      monitor.New(),
		resolver: resolver,
		entries:  make(map[Key]*record),
	}
}

// RegisterBuiltin binds key to a runtime-provided implementation.
// Re-registration of any kind under the same key is rejected.
func (r *Registry) RegisterBuiltin(tid monitor.ThreadID, key Key, fn BuiltinFunc) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseResolve, "nil builtin implementation")
	}
	r.mon.Enter(tid)
	defer r.mon.Exit(tid)

	if _, ok := r.entries[key]; ok {
		return errors.AlreadyRegistered(key.Class, key.Name, key.Desc)
	}
	r.entries[key] = &record{builtin: fn}
	return nil
}

// RegisterDynamic declares that key is implemented by a shared-library
// export. The symbol is not touched until the first Resolve.
func (r *Registry) RegisterDynamic(tid monitor.ThreadID, key Key) error {
	r.mon.Enter(tid)
	defer r.mon.Exit(tid)

	if _, ok := r.entries[key]; ok {
		return errors.AlreadyRegistered(key.Class, key.Name, key.Desc)
	}
	r.entries[key] = &record{}
	return nil
}

// Resolve returns the binding for key, performing first-use symbol
// resolution for dynamic entries. A failed resolution is not cached:
// the method stays resolvable once the missing library is loaded.
func (r *Registry) Resolve(tid monitor.ThreadID, key Key) (Entry, error) {
	r.mon.Enter(tid)
	defer r.mon.Exit(tid)

	rec, ok := r.entries[key]
	if !ok {
		return Entry{}, errors.New(errors.PhaseResolve, errors.KindNotFound).
			Method(key.Class, key.Name).
			Detail("no native registered for descriptor %s", key.Desc).
			Build()
	}
	if rec.builtin != nil {
		return Entry{Builtin: rec.builtin}, nil
	}
	if rec.resolved {
		return Entry{Target: rec.target}, nil
	}

	addr, err := r.resolver.ResolveNative(key.Class, key.Name, key.Desc)
	if err != nil {
		return Entry{}, err
	}
	rec.target = addr
	rec.resolved = true
	Logger().Info("resolved native method",
		zap.String("class", key.Class),
		zap.String("method", key.Name),
		zap.String("descriptor", key.Desc))
	return Entry{Target: addr}, nil
}

// Registered reports whether key has been registered, without resolving.
func (r *Registry) Registered(tid monitor.ThreadID, key Key) bool {
	r.mon.Enter(tid)
	defer r.mon.Exit(tid)
	_, ok := r.entries[key]
	return ok
}

// Keys returns every registered key. Order is unspecified.
func (r *Registry) Keys(tid monitor.ThreadID) []Key {
	r.mon.Enter(tid)
	defer r.mon.Exit(tid)
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}
