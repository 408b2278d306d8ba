// Package id provides a 128-bit, lexicographically sortable identifier.
//
// # Format
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// This guarantees that byte-wise comparison preserves chronological order,
// and that IDs generated within the same millisecond remain strictly
// increasing by sequence.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// # Round-tripping through text
//
// String and Parse are inverses, since an ID crosses a text boundary more
// often than not in this repo: an SSE subscription's "X-Consumer-Id"
// header, a value logged with pkg/log's ConsumerKey field. (Audit record
// keys use the raw Bytes form.)
// TimestampMs and Sequence expose the embedded fields directly rather than
// making every caller re-derive them by slicing Bytes().
//
// Usage
//
//	g := id.NewGenerator()
//	newID := g.Next()
//	b := newID.Bytes()   // 16-byte representation
//	s := newID.String()  // hex string
//	parsed, err := id.Parse(s)
package id
