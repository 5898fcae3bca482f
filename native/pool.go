package native

import "sync"

// DefaultStackSize is the usable size of one alternate stack.
const DefaultStackSize = 64 * 1024

// stackPool recycles alternate stacks across invocations. Allocating
// one is not free (two syscalls on the mmap-backed variant), so hot
// call paths reuse them; the pool only ever hands a stack to one
// invocation at a time.
type stackPool struct {
	mu    sync.Mutex
	free  []*AlternateStack
	size  int
	limit int
}

func newStackPool(stackSize, limit int) *stackPool {
	return &stackPool{size: stackSize, limit: limit}
}

func (p *stackPool) get() (*AlternateStack, error) {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()
	return newAlternateStack(p.size)
}

func (p *stackPool) put(s *AlternateStack) {
	p.mu.Lock()
	if len(p.free) < p.limit {
		p.free = append(p.free, s)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	s.free()
}

func (p *stackPool) drain() {
	p.mu.Lock()
	free := p.free
	p.free = nil
	p.mu.Unlock()
	for _, s := range free {
		s.free()
	}
}
