/*
Package ports defines the driven ports (interfaces) used around a strata stack.

These interfaces decouple the CLI and servers from concrete backends.

# Key Interfaces

  - SnapshotStore: persists named stack snapshots (e.g. in memory or Redis).
*/
package ports
