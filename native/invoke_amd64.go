//go:build linux && amd64

package native

import (
	"github.com/openjkit/jni-runtime/native/internal/asm"
)

func (iv *Invoker) call(desc *CallDescriptor, frame Frame) (Value, error) {
	ret, fret := asm.SysVCall(desc.Target(), frame.SP, frame.Base)
	return tagReturn(desc.Return(), ret, fret), nil
}
