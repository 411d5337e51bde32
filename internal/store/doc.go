// Package store provides a SQLite-backed fixture store of protocol entities.
//
// Entities are stored in their wire form, keyed by the canonical JSON of
// their wire key, so a round trip through the store exercises exactly the
// shapes the codec produces. The store supports lookup, put and delete by
// key and allocates numeric ids for incomplete keys. It is not a query
// engine.
//
// # Storage
//
//   - entities: one row per key with the canonical entity body, its digest
//     and a UUIDv7 revision that changes only when the body changes
//   - id_sequences: next numeric id per (namespace, kind)
//
// # Connections
//
// Every connection is opened with journal_mode=WAL, synchronous=NORMAL and
// a 5 second busy timeout. The schema version lives in PRAGMA user_version
// and each migration step commits together with its version bump.
//
// Bodies and digests are computed with wire.MarshalCanonical and
// wire.EntityDigest (RFC 8785 canonical JSON, SHA-256 with domain
// separation).
package store
