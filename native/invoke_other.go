//go:build !(linux && amd64)

package native

import (
	"github.com/openjkit/jni-runtime/errors"
)

func (iv *Invoker) call(desc *CallDescriptor, frame Frame) (Value, error) {
	return Value{}, errors.Unsupported(errors.PhaseInvoke,
		"no trampoline variant for this architecture")
}
