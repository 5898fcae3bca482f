package native

import (
	"unsafe"

	"github.com/openjkit/jni-runtime/abi"
	"github.com/openjkit/jni-runtime/errors"
)

// Frame records where one invocation's arguments were placed on an
// alternate stack. SP is the prepared stack pointer the trampoline switches
// to; the trampoline drains the register staging area in the exact order
// written here.
type Frame struct {
	SP         uintptr
	Base       uintptr
	Assignment abi.Assignment
	StackWords int
}

// Marshaller lays runtime-typed argument lists out on alternate stacks
// according to one calling-convention Layout.
type Marshaller struct {
	layout abi.Layout
}

func NewMarshaller(layout abi.Layout) *Marshaller {
	return &Marshaller{layout: layout}
}

func (m *Marshaller) Layout() abi.Layout {
	return m.layout
}

// Marshal writes desc's arguments onto stack. The region is laid out from
// the prepared stack pointer upward:
//
//	sp+0   .. sp+47   integer register staging, register order
//	sp+48  .. sp+111  sse register staging, register order
//	sp+112 ..         stack-passed arguments, convention order
//	base-8            reserved slot for the caller's saved stack pointer
//
// Sizing is checked before anything is written; an oversized argument list
// fails here with ArgumentOverflow and never reaches the stack switch.
func (m *Marshaller) Marshal(desc *CallDescriptor, stack *AlternateStack) (Frame, error) {
	asg := m.layout.Assign(desc.classes())
	stackWords := m.layout.StackSlots(asg)
	need := m.layout.FrameBytes(asg)
	if need > stack.Size() {
		return Frame{}, errors.ArgumentOverflow(need, stack.Size())
	}

	intBytes := uintptr(m.layout.IntArgRegs) * 8
	stagingBytes := uintptr(m.layout.StagingSlots()) * 8
	sp := stack.Base() - 16 - uintptr(stackWords)*8 - stagingBytes

	slot := func(off uintptr) *uint64 {
		return (*uint64)(unsafe.Pointer(sp + off))
	}

	// The trampoline drains every staging slot, so unpopulated ones must
	// hold zeros rather than a previous invocation's words.
	for i := 0; i < m.layout.StagingSlots()+stackWords; i++ {
		*slot(uintptr(i) * 8) = 0
	}

	for reg, argIdx := range asg.IntRegs {
		*slot(uintptr(reg) * 8) = desc.Arg(argIdx).Bits
	}
	for reg, argIdx := range asg.SSERegs {
		*slot(intBytes + uintptr(reg)*8) = desc.Arg(argIdx).Bits
	}
	for j, argIdx := range asg.Stack {
		*slot(stagingBytes + uintptr(j)*8) = desc.Arg(argIdx).Bits
	}

	stack.sp = sp
	return Frame{
		SP:         sp,
		Base:       stack.Base(),
		Assignment: asg,
		StackWords: stackWords,
	}, nil
}
