/*
Package ports defines the driven ports (interfaces) for the dispatch engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various chat transports and coordination backends.

# Key Interfaces

  - Source: Produces inbound updates (long polling, webhooks, in-memory queues).
  - Sink: Delivers output messages to the chat platform.
  - DistributedLocker: Serializes a conversation across multiple instances (replicas).
  - Deduplicator: Suppresses updates the platform delivered more than once.
*/
package ports
