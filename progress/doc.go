// Package progress defines primitives for reporting and aggregating per-run
// activity counters.  It abstracts away the underlying delivery mechanism so
// that callers can consume progress updates in a uniform way regardless of
// whether they are observed in-process or shipped to external observers.
package progress
