// Package coord runs the runtime's single coordination goroutine. It is
// the sole owner of thread-attachment bookkeeping; interpreter threads
// talk to it exclusively through request/response messages, which makes
// first-attach initialization mutually exclusive without any shared
// mutable state.
package coord
