package native

import (
	"github.com/openjkit/jni-runtime/abi"
	"github.com/openjkit/jni-runtime/errors"
)

// CallDescriptor is a fully resolved native call: target function pointer,
// ordered argument words, and the return kind. It is immutable once
// constructed and owned exclusively by the invocation that created it.
type CallDescriptor struct {
	target uintptr
	ret    Kind
	args   []Argument
}

// NewCallDescriptor builds a descriptor. The argument slice is copied so
// later mutation by the caller cannot reach an in-flight invocation.
func NewCallDescriptor(target uintptr, ret Kind, args []Argument) (*CallDescriptor, error) {
	if target == 0 {
		return nil, errors.InvalidInput(errors.PhaseInvoke, "nil target function pointer")
	}
	for i, a := range args {
		if a.Kind == Void {
			return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Detail("argument %d has kind void", i).
				Build()
		}
	}
	cp := make([]Argument, len(args))
	copy(cp, args)
	return &CallDescriptor{target: target, ret: ret, args: cp}, nil
}

// Target returns the native function pointer.
func (d *CallDescriptor) Target() uintptr {
	return d.target
}

// Return returns the return kind.
func (d *CallDescriptor) Return() Kind {
	return d.ret
}

// Arity returns the number of arguments.
func (d *CallDescriptor) Arity() int {
	return len(d.args)
}

// Arg returns the i-th argument.
func (d *CallDescriptor) Arg(i int) Argument {
	return d.args[i]
}

func (d *CallDescriptor) classes() []abi.Class {
	c := make([]abi.Class, len(d.args))
	for i, a := range d.args {
		c[i] = a.Kind.Class()
	}
	return c
}
