//go:build linux

package native

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/openjkit/jni-runtime/errors"
)

// AlternateStack is a fixed-size region the trampoline executes native
// calls on. base is the high end of the region; sp grows downward from it.
// The 8 bytes at base-8 are reserved: they hold the caller's saved stack
// pointer while execution is active on this stack. The region is owned
// exclusively by one invocation at a time.
type AlternateStack struct {
	mem  []byte // full mapping including the guard page
	size int    // usable bytes above the guard page
	sp   uintptr
}

func newAlternateStack(size int) (*AlternateStack, error) {
	page := unix.Getpagesize()
	if size <= 0 {
		size = DefaultStackSize
	}
	// Round the usable region up to whole pages and leave one guard page
	// at the low end so runaway native frames fault instead of scribbling
	// over adjacent mappings.
	if size%page != 0 {
		size += page - size%page
	}
	mem, err := unix.Mmap(-1, 0, size+page,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.AllocationFailed(size+page, err)
	}
	if err := unix.Mprotect(mem[:page], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mem)
		return nil, errors.AllocationFailed(size+page, err)
	}
	return &AlternateStack{mem: mem, size: size}, nil
}

// Base returns the high-address growth boundary.
func (s *AlternateStack) Base() uintptr {
	return uintptr(unsafe.Pointer(&s.mem[0])) + uintptr(len(s.mem))
}

// SP returns the prepared stack pointer. Only valid after a marshal.
func (s *AlternateStack) SP() uintptr {
	return s.sp
}

// Size returns the usable bytes between the guard page and base.
func (s *AlternateStack) Size() int {
	return s.size
}

func (s *AlternateStack) free() {
	if s.mem != nil {
		_ = unix.Munmap(s.mem)
		s.mem = nil
	}
}
