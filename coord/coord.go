package coord

import (
	"sync"

	"go.uber.org/zap"

	"github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/monitor"
)

// AttachHook runs once per thread when it first attaches, inside the
// coordinator goroutine. A failing hook leaves the thread unattached so
// a later call retries.
type AttachHook func(tid monitor.ThreadID) error

type reqKind int

const (
	reqAttach reqKind = iota
	reqDetach
	reqAttached
	reqThreads
)

type request struct {
	kind  reqKind
	tid   monitor.ThreadID
	reply chan response
}

type response struct {
	first    bool
	attached bool
	threads  []monitor.ThreadID
	err      error
}

// Coordinator is the runtime's single long-lived coordination goroutine.
// It owns thread-attachment bookkeeping outright: callers reach it only
// through request/response messages, never through shared memory, so
// per-thread initialization is mutually exclusive by construction. No
// stronger ordering between attaching threads is promised.
type Coordinator struct {
	requests chan request
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	hook     AttachHook
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithAttachHook installs a hook run on each thread's first attach.
func WithAttachHook(h AttachHook) Option {
	return func(c *Coordinator) { c.hook = h }
}

// New starts the coordination goroutine.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.loop()
	return c
}

func (c *Coordinator) loop() {
	defer close(c.done)
	attached := make(map[monitor.ThreadID]struct{})
	for {
		select {
		case <-c.quit:
			return
		case req := <-c.requests:
			var resp response
			switch req.kind {
			case reqAttach:
				if _, ok := attached[req.tid]; ok {
					break
				}
				if c.hook != nil {
					if err := c.hook(req.tid); err != nil {
						resp.err = err
						break
					}
				}
				attached[req.tid] = struct{}{}
				resp.first = true
				Logger().Debug("thread attached", zap.Int64("thread", int64(req.tid)))
			case reqDetach:
				delete(attached, req.tid)
			case reqAttached:
				_, resp.attached = attached[req.tid]
			case reqThreads:
				resp.threads = make([]monitor.ThreadID, 0, len(attached))
				for tid := range attached {
					resp.threads = append(resp.threads, tid)
				}
			}
			req.reply <- resp
		}
	}
}

func (c *Coordinator) send(kind reqKind, tid monitor.ThreadID) (response, error) {
	req := request{kind: kind, tid: tid, reply: make(chan response, 1)}
	select {
	case c.requests <- req:
		return <-req.reply, nil
	case <-c.done:
		return response{}, errors.Shutdown(errors.PhaseCoord, "coordination thread")
	}
}

// Attach records tid as an interpreter thread, running the attach hook
// on its first call. It reports whether this call performed the
// initialization.
func (c *Coordinator) Attach(tid monitor.ThreadID) (bool, error) {
	resp, err := c.send(reqAttach, tid)
	if err != nil {
		return false, err
	}
	return resp.first, resp.err
}

// Detach forgets tid. A later Attach reinitializes it.
func (c *Coordinator) Detach(tid monitor.ThreadID) error {
	_, err := c.send(reqDetach, tid)
	return err
}

// Attached reports whether tid has attached.
func (c *Coordinator) Attached(tid monitor.ThreadID) (bool, error) {
	resp, err := c.send(reqAttached, tid)
	if err != nil {
		return false, err
	}
	return resp.attached, nil
}

// Threads returns the attached thread ids. Order is unspecified.
func (c *Coordinator) Threads() ([]monitor.ThreadID, error) {
	resp, err := c.send(reqThreads, 0)
	if err != nil {
		return nil, err
	}
	return resp.threads, nil
}

// Stop shuts the coordinator down. Requests issued after Stop fail with
// a shutdown error rather than blocking.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.quit) })
	<-c.done
}
