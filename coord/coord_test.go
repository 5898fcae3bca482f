package coord

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	rterrors "github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/monitor"
)

func TestAttachOnce(t *testing.T) {
	c := New()
	defer c.Stop()

	first, err := c.Attach(7)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !first {
		t.Error("first Attach did not report initialization")
	}
	first, err = c.Attach(7)
	if err != nil {
		t.Fatalf("second Attach: %v", err)
	}
	if first {
		t.Error("second Attach reported initialization again")
	}

	attached, err := c.Attached(7)
	if err != nil {
		t.Fatalf("Attached: %v", err)
	}
	if !attached {
		t.Error("thread not reported attached")
	}
}

func TestConcurrentAttachSingleInit(t *testing.T) {
	var inits atomic.Int64
	c := New(WithAttachHook(func(monitor.ThreadID) error {
		inits.Add(1)
		return nil
	}))
	defer c.Stop()

	const n = 16
	var wg sync.WaitGroup
	var firsts atomic.Int64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := c.Attach(42)
			if err != nil {
				t.Errorf("Attach: %v", err)
				return
			}
			if first {
				firsts.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := inits.Load(); got != 1 {
		t.Errorf("attach hook ran %d times, want exactly 1", got)
	}
	if got := firsts.Load(); got != 1 {
		t.Errorf("%d callers observed first attach, want exactly 1", got)
	}
}

func TestFailingHookRetries(t *testing.T) {
	fail := true
	c := New(WithAttachHook(func(monitor.ThreadID) error {
		if fail {
			return rterrors.InvalidInput(rterrors.PhaseCoord, "init failed")
		}
		return nil
	}))
	defer c.Stop()

	if _, err := c.Attach(1); err == nil {
		t.Fatal("Attach with failing hook succeeded")
	}
	if attached, _ := c.Attached(1); attached {
		t.Fatal("failed attach left thread attached")
	}

	fail = false
	first, err := c.Attach(1)
	if err != nil {
		t.Fatalf("retried Attach: %v", err)
	}
	if !first {
		t.Error("retried Attach did not initialize")
	}
}

func TestDetach(t *testing.T) {
	c := New()
	defer c.Stop()

	if _, err := c.Attach(3); err != nil {
		t.Fatal(err)
	}
	if err := c.Detach(3); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if attached, _ := c.Attached(3); attached {
		t.Error("thread still attached after Detach")
	}
	first, err := c.Attach(3)
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Error("re-attach after Detach did not reinitialize")
	}
}

func TestThreads(t *testing.T) {
	c := New()
	defer c.Stop()

	for _, tid := range []monitor.ThreadID{1, 2, 3} {
		if _, err := c.Attach(tid); err != nil {
			t.Fatal(err)
		}
	}
	threads, err := c.Threads()
	if err != nil {
		t.Fatalf("Threads: %v", err)
	}
	if len(threads) != 3 {
		t.Errorf("Threads = %v, want 3 entries", threads)
	}
}

func TestRequestsAfterStop(t *testing.T) {
	c := New()
	c.Stop()

	_, err := c.Attach(1)
	if !errors.Is(err, rterrors.Shutdown(rterrors.PhaseCoord, "")) {
		t.Fatalf("Attach after Stop = %v, want shutdown", err)
	}
	if _, err := c.Attached(1); err == nil {
		t.Error("Attached after Stop succeeded")
	}
	if err := c.Detach(1); err == nil {
		t.Error("Detach after Stop succeeded")
	}
	// Stop is idempotent.
	c.Stop()
}
