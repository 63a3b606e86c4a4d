/*
Package observability provides tools for monitoring and introspecting a strata stack.

It includes hook sets for structured logging and Prometheus metrics, a Combine
helper to fan events out to several hook sets, and a Tracker that keeps the
latest stack snapshot for readers on other goroutines (HTTP handlers, for example).
*/
package observability
