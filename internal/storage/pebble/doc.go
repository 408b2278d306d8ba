// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// snapshots, batches, and minimal metrics hooks, plus a Journal built on top
// of that wrapper for components that need a retained, time-ordered record
// log rather than raw key/value access.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	// Atomic updates with batches
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
//	// Point ops
//	_ = db.Set([]byte("k2"), []byte("v2"))
//	v, _ := db.Get([]byte("k2"))
//
//	// A namespaced, CRC-framed, time-ordered record log (see internal/audit)
//	j := db.Journal([]byte("audit/"))
//	_ = j.Append(gen.Next(), body)
//	deleted, _ := j.TrimOlderThan(ctx, cutoffMs, 1024, time.Millisecond)
package pebblestore
