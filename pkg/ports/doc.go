/*
Package ports defines the driven ports (interfaces) for the execution engine.

These interfaces decouple the engine from external implementations, allowing
frames to be mirrored into various storage backends for out-of-process renderers.

# Key Interfaces

  - SnapshotStore: Keeps the latest frame and the accumulated execution log.
*/
package ports
