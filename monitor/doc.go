// Package monitor implements reentrant mutual-exclusion objects with
// FIFO admission and wait/notify, modelled on JVM object monitors.
// Ownership is tracked by thread id rather than goroutine, so one
// interpreter thread may enter through different call paths.
package monitor
