// Package http exposes a read-only view of a strata stack over HTTP:
// the current snapshot, live lifecycle events as server-sent events, and
// Prometheus metrics.
package http
