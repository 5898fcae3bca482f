//go:build !linux

package native

import "unsafe"

// AlternateStack on platforms without the mmap-backed variant is a plain
// heap region. Marshalling works for layout tests; invocation is refused
// by the trampoline stub.
type AlternateStack struct {
	mem []byte
	sp  uintptr
}

func newAlternateStack(size int) (*AlternateStack, error) {
	if size <= 0 {
		size = DefaultStackSize
	}
	// Over-allocate so Base can be rounded down to the 16-byte alignment
	// the mmap-backed variant gets for free.
	return &AlternateStack{mem: make([]byte, size+16)}, nil
}

func (s *AlternateStack) Base() uintptr {
	end := uintptr(unsafe.Pointer(&s.mem[0])) + uintptr(len(s.mem))
	return end &^ 15
}

func (s *AlternateStack) SP() uintptr {
	return s.sp
}

func (s *AlternateStack) Size() int {
	return len(s.mem) - 16
}

func (s *AlternateStack) free() {
	s.mem = nil
}
