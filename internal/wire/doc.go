// Package wire defines the protocol-side shapes exchanged with the remote
// key-value store.
//
// Field names and JSON tags are part of the external contract and must match
// the remote service byte for byte. This package imports nothing internal;
// key, value, entity and query all build on it.
//
// Key design constraints:
//   - Property presence is the discriminant: a field is set when it is
//     non-nil, so an explicit zero, false or empty string is distinct from
//     absence. Property.Kind decodes presence once so callers never
//     re-inspect pointers.
//   - 64-bit integers travel as decimal strings (Int64) and are accepted as
//     strings or numbers on input.
//   - Canonical JSON (RFC 8785 key order, NFC strings) is used only for
//     digests and golden files, never for the wire itself.
package wire
