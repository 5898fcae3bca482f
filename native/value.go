package native

import (
	"math"

	"github.com/openjkit/jni-runtime/abi"
)

// Kind tags the fixed-width machine representation of an argument or
// return value. Dynamic typing is resolved before this layer; a Kind maps
// one-to-one onto a register class and a word width.
type Kind uint8

const (
	Void Kind = iota
	Int32
	Int64
	Float32
	Float64
	Pointer
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Pointer:
		return "pointer"
	}
	return "unknown"
}

// Class returns the register class arguments of this kind route through.
func (k Kind) Class() abi.Class {
	switch k {
	case Float32, Float64:
		return abi.ClassSSE
	default:
		return abi.ClassInteger
	}
}

// Argument is one resolved call argument: a kind tag and the raw bits as
// they will appear in a register or stack slot.
type Argument struct {
	Kind Kind
	Bits uint64
}

func Int32Arg(v int32) Argument {
	return Argument{Kind: Int32, Bits: uint64(int64(v))}
}

func Int64Arg(v int64) Argument {
	return Argument{Kind: Int64, Bits: uint64(v)}
}

func Float32Arg(v float32) Argument {
	return Argument{Kind: Float32, Bits: uint64(math.Float32bits(v))}
}

func Float64Arg(v float64) Argument {
	return Argument{Kind: Float64, Bits: math.Float64bits(v)}
}

// PointerArg passes a raw address. The referenced object must stay pinned
// for the duration of the call; this layer never allocates or collects.
func PointerArg(p uintptr) Argument {
	return Argument{Kind: Pointer, Bits: uint64(p)}
}

// Value is a tagged return value. Bits holds the unmodified content of the
// architecture's return register for the kind's class.
type Value struct {
	Kind Kind
	Bits uint64
}

func (v Value) Int32() int32 {
	return int32(v.Bits)
}

func (v Value) Int64() int64 {
	return int64(v.Bits)
}

func (v Value) Float32() float32 {
	return math.Float32frombits(uint32(v.Bits))
}

func (v Value) Float64() float64 {
	return math.Float64frombits(v.Bits)
}

func (v Value) Pointer() uintptr {
	return uintptr(v.Bits)
}

func (v Value) IsVoid() bool {
	return v.Kind == Void
}
