package abi

// Class is the register class an argument is routed through.
type Class int

const (
	// ClassInteger covers integer and pointer words.
	ClassInteger Class = iota
	// ClassSSE covers float32/float64 words.
	ClassSSE
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassSSE:
		return "sse"
	}
	return "unknown"
}

// Layout is a versioned calling-convention policy. The marshaller consumes
// it to place arguments; the trampoline variant named by Name must load
// registers in exactly the order Assign produces. Porting to another
// architecture means substituting one Layout plus one trampoline, not
// touching call sites.
type Layout struct {
	Name    string
	Version int

	// IntArgRegs is the number of integer/pointer argument registers.
	IntArgRegs int
	// SSEArgRegs is the number of floating-point argument registers.
	SSEArgRegs int
	// StackAlign is the required stack alignment at the call instruction.
	StackAlign int
}

// SysVAMD64 is the System V AMD64 convention.
//
// Integer argument order:
//
//	1: %rdi  2: %rsi  3: %rdx  4: %rcx  5: %r8  6: %r9  >6: stack
//
// Floating-point arguments go to %xmm0-%xmm7. Return values arrive in
// %rax (integer/pointer) or %xmm0 (float).
var SysVAMD64 = Layout{
	Name:       "sysv-amd64",
	Version:    1,
	IntArgRegs: 6,
	SSEArgRegs: 8,
	StackAlign: 16,
}

// Assignment maps argument indexes to their convention slots. IntRegs and
// SSERegs are in register order; Stack is in the convention's stack order
// (first stack argument at the lowest address).
type Assignment struct {
	IntRegs []int
	SSERegs []int
	Stack   []int
}

// Assign routes each argument class to a register or stack slot.
// Integer and SSE registers are assigned independently; once either set
// is exhausted, remaining arguments of that class go to the stack in
// declaration order, interleaved with the other class per the convention.
func (l Layout) Assign(classes []Class) Assignment {
	var a Assignment
	for i, c := range classes {
		switch c {
		case ClassSSE:
			if len(a.SSERegs) < l.SSEArgRegs {
				a.SSERegs = append(a.SSERegs, i)
			} else {
				a.Stack = append(a.Stack, i)
			}
		default:
			if len(a.IntRegs) < l.IntArgRegs {
				a.IntRegs = append(a.IntRegs, i)
			} else {
				a.Stack = append(a.Stack, i)
			}
		}
	}
	return a
}

// StagingSlots is the number of 8-byte slots reserved for register
// arguments at the low end of the alternate stack. The trampoline drains
// all of them regardless of how many are populated.
func (l Layout) StagingSlots() int {
	return l.IntArgRegs + l.SSEArgRegs
}

// StackSlots is the number of 8-byte slots occupied by stack-passed
// arguments, padded so the stack-argument block keeps StackAlign at the
// call instruction.
func (l Layout) StackSlots(a Assignment) int {
	n := len(a.Stack)
	align := l.StackAlign / 8
	if align > 1 && n%align != 0 {
		n += align - n%align
	}
	return n
}

// FrameBytes is the total alternate-stack space one invocation needs:
// register staging, stack arguments, and the reserved saved-SP slot at
// the top of the region (plus its alignment gap).
func (l Layout) FrameBytes(a Assignment) int {
	return (l.StagingSlots()+l.StackSlots(a))*8 + 2*8
}
