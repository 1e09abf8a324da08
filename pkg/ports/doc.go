/*
Package ports defines the driven ports (interfaces) of the Turing machine engine.

These interfaces decouple the core from external implementations, allowing the
engine to load machine descriptions from different sources and to persist
stepwise runs in different backends.

# Key Interfaces

  - DescriptionLoader: Resolves machine descriptions by name (e.g., from a directory or memory).
  - StateStore: Persists and loads the RunState of stepwise sessions.
  - DistributedLocker: Provides distributed locking so only one writer advances a session.
*/
package ports
