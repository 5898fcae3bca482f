package monitor

import (
	"sync"
	"time"

	"github.com/openjkit/jni-runtime/errors"
)

// ThreadID identifies one interpreter thread. The runtime assigns these;
// the monitor only compares them.
type ThreadID int64

// waiter is one blocked thread. Ownership or a notification is delivered
// by closing ch; the waiter never polls shared state.
type waiter struct {
	tid ThreadID
	ch  chan struct{}
}

// Monitor is a reentrant mutual-exclusion object with FIFO admission.
// Ownership is handed directly to the head of the entry queue on release,
// so a later entrant can never overtake an earlier one.
type Monitor struct {
	mu      sync.Mutex
	held    bool
	owner   ThreadID
	count   uint32
	entries []*waiter // blocked in Enter, FIFO
	waiters []*waiter // parked in Wait, FIFO
}

func New() *Monitor {
	return &Monitor{}
}

// Enter acquires the monitor for tid, blocking behind earlier entrants.
// A thread that already owns the monitor reenters without blocking.
func (m *Monitor) Enter(tid ThreadID) {
	m.mu.Lock()
	if m.held && m.owner == tid {
		m.count++
		m.mu.Unlock()
		return
	}
	if !m.held {
		m.held = true
		m.owner = tid
		m.count = 1
		m.mu.Unlock()
		return
	}
	w := &waiter{tid: tid, ch: make(chan struct{})}
	m.entries = append(m.entries, w)
	m.mu.Unlock()
	<-w.ch
}

// Exit releases one level of ownership. Releasing the last level hands
// the monitor to the longest-blocked entrant, if any. Exit by a thread
// that does not own the monitor fails with IllegalMonitorState and
// leaves the monitor untouched.
func (m *Monitor) Exit(tid ThreadID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held || m.owner != tid {
		return errors.IllegalMonitorState("exit by non-owner thread")
	}
	m.count--
	if m.count == 0 {
		m.releaseLocked()
	}
	return nil
}

// releaseLocked transfers ownership to the entry-queue head or marks the
// monitor free. Caller holds m.mu.
func (m *Monitor) releaseLocked() {
	if len(m.entries) == 0 {
		m.held = false
		return
	}
	w := m.entries[0]
	m.entries = m.entries[1:]
	m.owner = w.tid
	m.count = 1
	close(w.ch)
}

// Owned reports whether tid currently owns the monitor.
func (m *Monitor) Owned(tid ThreadID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held && m.owner == tid
}

// Wait releases the monitor entirely, parks tid until a notification or
// the timeout, then reacquires the monitor at the same reentrancy depth
// before returning. A zero or negative timeout waits indefinitely. The
// caller must own the monitor.
func (m *Monitor) Wait(tid ThreadID, timeout time.Duration) error {
	m.mu.Lock()
	if !m.held || m.owner != tid {
		m.mu.Unlock()
		return errors.IllegalMonitorState("wait by non-owner thread")
	}
	depth := m.count
	w := &waiter{tid: tid, ch: make(chan struct{})}
	m.waiters = append(m.waiters, w)
	m.count = 0
	m.releaseLocked()
	m.mu.Unlock()

	if timeout > 0 {
		t := time.NewTimer(timeout)
		select {
		case <-w.ch:
			t.Stop()
		case <-t.C:
			m.removeWaiter(w)
		}
	} else {
		<-w.ch
	}

	m.Enter(tid)
	m.mu.Lock()
	m.count = depth
	m.mu.Unlock()
	return nil
}

// removeWaiter drops a timed-out waiter from the wait set. If a
// notification raced ahead and already removed it, nothing is done.
func (m *Monitor) removeWaiter(w *waiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.waiters {
		if x == w {
			m.waiters = append(m.waiters[:i], m.waiters[i+1:]...)
			return
		}
	}
}

// Notify wakes the longest-parked waiter, if any. The woken thread still
// has to reacquire the monitor through the entry queue. The caller must
// own the monitor.
func (m *Monitor) Notify(tid ThreadID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held || m.owner != tid {
		return errors.IllegalMonitorState("notify by non-owner thread")
	}
	if len(m.waiters) > 0 {
		w := m.waiters[0]
		m.waiters = m.waiters[1:]
		close(w.ch)
	}
	return nil
}

// NotifyAll wakes every parked waiter. The caller must own the monitor.
func (m *Monitor) NotifyAll(tid ThreadID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held || m.owner != tid {
		return errors.IllegalMonitorState("notify by non-owner thread")
	}
	for _, w := range m.waiters {
		close(w.ch)
	}
	m.waiters = nil
	return nil
}
