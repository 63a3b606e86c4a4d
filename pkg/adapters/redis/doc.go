// Package redis provides Redis-backed adapters: a snapshot store and a
// lifecycle event sink that appends to a Redis stream.
package redis
