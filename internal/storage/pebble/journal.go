package pebblestore

import (
	"context"
	"encoding/binary"
	"hash/crc32"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rzbill/dispatchq/pkg/id"
)

// Journal is an append-mostly, time-ordered record log layered on a DB.
// Keys are prefix+id.ID, so a full scan replays records in append order and
// age-based retention reads its cutoff straight out of the key's embedded
// millisecond timestamp without touching the body. Bodies are written with
// a trailing CRC32 so a record truncated by a crash is detected on read
// instead of silently returned as valid data.
//
// internal/audit's delivery trail is the current user, but nothing here is
// audit-specific: it is the shape any retained, ordered side-log needs, and
// a second caller can open its own Journal over the same DB by choosing a
// disjoint prefix.
type Journal struct {
	db     *DB
	prefix []byte
}

// Journal returns a Journal over db namespaced by prefix. Two Journals
// opened with disjoint prefixes over the same DB never observe each
// other's keys.
func (db *DB) Journal(prefix []byte) *Journal {
	return &Journal{db: db, prefix: append([]byte(nil), prefix...)}
}

// Append writes body, framed with a CRC32 checksum, under a key derived
// from recID.
func (j *Journal) Append(recID id.ID, body []byte) error {
	return j.db.Set(j.key(recID), frame(body))
}

// Scan returns every record body currently retained, oldest first.
func (j *Journal) Scan() ([][]byte, error) {
	low, high := j.bounds()
	it, err := j.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out [][]byte
	for ok := it.First(); ok; ok = it.Next() {
		if body, valid := unframe(it.Value()); valid {
			out = append(out, body)
		}
	}
	return out, nil
}

// TrimOlderThan deletes records whose key-embedded id.ID timestamp is below
// cutoffMs, committing in batches of up to batchLimit keys with an optional
// pause between commits so a large trim doesn't monopolize the store.
// Returns the number of records deleted.
func (j *Journal) TrimOlderThan(ctx context.Context, cutoffMs int64, batchLimit int, throttle time.Duration) (int, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}

	low, high := j.bounds()
	it, err := j.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return 0, err
	}
	defer it.Close()

	deleted := 0
	for ok := it.First(); ok; {
		b := j.db.NewBatch()
		n := 0
		for ok && n < batchLimit {
			key := it.Key()
			if idTimestampMs(key) >= cutoffMs {
				ok = false
				break
			}
			if err := b.Delete(key, nil); err != nil {
				b.Close()
				return deleted, err
			}
			deleted++
			n++
			ok = it.Next()
		}
		if n > 0 {
			if err := j.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted, err
			}
			b.Close()
			if throttle > 0 {
				time.Sleep(throttle)
			}
		} else {
			b.Close()
		}
	}
	return deleted, nil
}

func (j *Journal) key(recID id.ID) []byte {
	k := make([]byte, 0, len(j.prefix)+16)
	k = append(k, j.prefix...)
	k = append(k, recID.Bytes()...)
	return k
}

func (j *Journal) bounds() (low, high []byte) {
	low = j.prefix
	high = append(append([]byte(nil), j.prefix...), 0xff)
	return low, high
}

func frame(body []byte) []byte {
	crc := crc32.ChecksumIEEE(body)
	out := make([]byte, 0, len(body)+4)
	out = append(out, body...)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

func unframe(b []byte) ([]byte, bool) {
	if len(b) < 4 {
		return nil, false
	}
	body := b[:len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.ChecksumIEEE(body) != expect {
		return nil, false
	}
	return body, true
}

// idTimestampMs extracts the millisecond timestamp embedded in the
// trailing 16-byte id.ID within key, via id.ID.TimestampMs rather than
// re-deriving the byte offset here.
func idTimestampMs(key []byte) int64 {
	if len(key) < 16 {
		return 0
	}
	var recID id.ID
	copy(recID[:], key[len(key)-16:])
	return recID.TimestampMs()
}
