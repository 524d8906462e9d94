// Package engine implements the offline-first sync engine.
//
// The engine mediates every create and delete of an exercise, PR entry, or
// weight entry between three places: the in-memory collections it owns, the
// durable Local Store, and (when configured) the remote document store.
//
// ARCHITECTURE:
//
// Local-first reads:
// Startup hydrates the in-memory collections from the Local Store
// synchronously, then refreshes from the remote in the background. Reads
// never wait on the network.
//
// Remote-first writes:
// Within one mutation the remote write precedes the memory/local mutation
// that depends on its result (the server-assigned id). A failed remote write
// degrades the operation to local-only instead of failing it.
//
// Authority:
// The remote store, when reachable, is authoritative. A successful refresh
// replaces the in-memory collection and overwrites the Local Store. Each
// collection refreshes independently; one failure never rolls back another
// collection's success.
//
// Mutual exclusion:
// A per-collection mutex serializes compound read-modify-persist mutations,
// so multiple callers (CLI commands, a background refresh) cannot interleave
// within one collection. The last Save to the Local Store wins across
// independent operations.
//
// Failure policy:
// Validation errors are the only failures surfaced to callers. Every
// storage-layer error is caught at the engine boundary, logged, and reported
// through the Notifier as a non-fatal notice, favoring availability over
// strict consistency.
package engine
