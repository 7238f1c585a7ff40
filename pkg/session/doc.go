/*
Package session holds the per-conversation registry of pending continuations.

A Manager owns one Conversation per conversation key. Access to a conversation
is serialized through a reference-counted per-key mutex, so updates of the same
conversation are processed one at a time while distinct conversations never
block each other. An optional ports.DistributedLocker extends the exclusion
across replicas.
*/
package session
