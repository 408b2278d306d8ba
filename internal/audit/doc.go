// Package audit is a write-only, Pebble-backed record of delivery
// metadata: which consumer received which key, and when. It exists
// purely for operator observability and is never read by the dispatch
// core — enabling it changes nothing about mqproc's delivery, ordering,
// or reclamation behavior, since the core itself remains non-persistent.
//
// Keys are laid out as audit/{16-byte sortable id}, using pkg/id so
// entries iterate back out in delivery order without a separate sequence
// counter. Records are CRC32-framed JSON, trimmed by age the same way
// the corpus trims its event logs: batched deletes with an optional
// throttle between batches.
package audit
