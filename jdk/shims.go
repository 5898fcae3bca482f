package jdk

import (
	"io"
	"math"
	"os"
	"unsafe"

	"github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/monitor"
	"github.com/openjkit/jni-runtime/native"
	"github.com/openjkit/jni-runtime/registry"
)

// Shims holds the runtime-provided native implementations the standard
// library shim declares: stream output hooks, the jio formatting
// helper, and the registerNatives no-ops.
type Shims struct {
	stdout io.Writer
	stderr io.Writer
}

// Option configures Shims.
type Option func(*Shims)

// WithStdout redirects managed-side standard output.
func WithStdout(w io.Writer) Option {
	return func(s *Shims) { s.stdout = w }
}

// WithStderr redirects managed-side standard error.
func WithStderr(w io.Writer) Option {
	return func(s *Shims) { s.stderr = w }
}

func NewShims(opts ...Option) *Shims {
	s := &Shims{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// registerNatives is declared native on several core classes; linking
// happens through this registry instead, so the builtin does nothing.
var registerNativesClasses = []string{
	"java/lang/Object",
	"java/lang/Class",
	"java/lang/System",
	"java/lang/Thread",
}

// Register installs every shim builtin into reg.
func (s *Shims) Register(tid monitor.ThreadID, reg *registry.Registry) error {
	for _, class := range registerNativesClasses {
		key := registry.Key{Class: class, Name: "registerNatives", Desc: "()V"}
		if err := reg.RegisterBuiltin(tid, key, registerNatives); err != nil {
			return err
		}
	}
	sendIO := registry.Key{Class: "java/io/PrintStream", Name: "sendIO", Desc: "(I[BI)V"}
	if err := reg.RegisterBuiltin(tid, sendIO, s.SendIO); err != nil {
		return err
	}
	printf := registry.Key{Class: "java/io/PrintStream", Name: "printf0", Desc: "(IJ[J)V"}
	return reg.RegisterBuiltin(tid, printf, s.Printf)
}

func registerNatives(args []native.Argument) (native.Value, error) {
	return native.Value{Kind: native.Void}, nil
}

// SendIO forwards managed-side stream bytes to the runtime's writers.
// Arguments: fd, address of the pinned byte data, length.
func (s *Shims) SendIO(args []native.Argument) (native.Value, error) {
	if len(args) != 3 {
		return native.Value{}, errors.InvalidInput(errors.PhaseRuntime,
			"sendIO expects (fd, data, len)")
	}
	fd := int32(args[0].Bits)
	addr := uintptr(args[1].Bits)
	n := int(int32(args[2].Bits))
	if n < 0 {
		return native.Value{}, errors.InvalidInput(errors.PhaseRuntime, "negative sendIO length")
	}
	if n > 0 && addr == 0 {
		return native.Value{}, errors.InvalidInput(errors.PhaseRuntime, "nil sendIO buffer")
	}
	if n > 0 {
		data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
		if _, err := s.writerFor(fd).Write(data); err != nil {
			return native.Value{}, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidInput,
				err, "stream write failed")
		}
	}
	return native.Value{Kind: native.Void}, nil
}

// Printf is the jio formatting helper behind printf0. Arguments: fd,
// the address of a NUL-terminated format string carried as a raw long,
// and the address of the packed vararg longs. The conversion verbs in
// the format drive the decoding of the vararg slots: %s reads a slot
// as the address of a NUL-terminated string, %f as float64 bits, and
// the integer verbs as a signed long.
func (s *Shims) Printf(args []native.Argument) (native.Value, error) {
	if len(args) != 3 {
		return native.Value{}, errors.InvalidInput(errors.PhaseRuntime,
			"printf0 expects (fd, format, args)")
	}
	fd := int32(args[0].Bits)
	if !addressKind(args[1].Kind) {
		return native.Value{}, badArgKind("printf0 format", args[1].Kind)
	}
	if args[1].Bits == 0 {
		return native.Value{}, errors.InvalidInput(errors.PhaseRuntime, "nil format string")
	}
	if !addressKind(args[2].Kind) {
		return native.Value{}, badArgKind("printf0 varargs", args[2].Kind)
	}
	format := goString(uintptr(args[1].Bits))

	varargs, err := unpackVarargs(format, uintptr(args[2].Bits))
	if err != nil {
		return native.Value{}, err
	}

	out, err := Format(format, varargs)
	if err != nil {
		return native.Value{}, err
	}
	if _, err := io.WriteString(s.writerFor(fd), out); err != nil {
		return native.Value{}, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidInput,
			err, "stream write failed")
	}
	return native.Value{Kind: native.Void}, nil
}

// addressKind reports whether an argument kind can carry a raw
// address. Descriptors type raw addresses as J, so dynamic callers
// hand them over as longs; direct callers may tag them as pointers.
func addressKind(k native.Kind) bool {
	return k == native.Int64 || k == native.Pointer
}

func badArgKind(where string, k native.Kind) error {
	return errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
		Detail("%s argument for %s", k, where).
		Build()
}

// unpackVarargs decodes the packed vararg block at addr against the
// conversion verbs of format. Each verb consumes one long slot.
func unpackVarargs(format string, addr uintptr) ([]any, error) {
	verbs, err := formatVerbs(format)
	if err != nil {
		return nil, err
	}
	if len(verbs) == 0 {
		return nil, nil
	}
	if addr == 0 {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "nil printf0 vararg block")
	}
	slots := unsafe.Slice((*uint64)(unsafe.Pointer(addr)), len(verbs))
	varargs := make([]any, len(verbs))
	for i, v := range verbs {
		bits := slots[i]
		switch v {
		case 's':
			varargs[i] = goString(uintptr(bits))
		case 'f':
			varargs[i] = math.Float64frombits(bits)
		default:
			varargs[i] = int64(bits)
		}
	}
	return varargs, nil
}

func (s *Shims) writerFor(fd int32) io.Writer {
	if fd == 1 {
		return s.stdout
	}
	return s.stderr
}

// goString copies a NUL-terminated string out of raw memory.
func goString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(addr + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(addr)), n))
}
