package audit

import (
	"context"
	"encoding/json"
	"time"

	pebblestore "github.com/rzbill/dispatchq/internal/storage/pebble"
	"github.com/rzbill/dispatchq/pkg/id"
)

var journalPrefix = []byte("audit/")

// Entry is one recorded delivery.
type Entry struct {
	Namespace     string `json:"namespace"`
	Key           string `json:"key"`
	Consumer      string `json:"consumer"`
	DeliveredAtMs int64  `json:"deliveredAtMs"`
}

// Trail appends delivery Entries to a pebblestore.Journal, keyed by a
// sortable pkg/id.ID so a full scan replays entries in delivery order. The
// framing, keying, and batched retention live in the Journal; this type
// only knows how to turn an Entry into JSON and back.
type Trail struct {
	journal *pebblestore.Journal
	gen     *id.Generator
}

// Open wraps db as a Trail.
func Open(db *pebblestore.DB) *Trail {
	return &Trail{journal: db.Journal(journalPrefix), gen: id.NewGenerator()}
}

// Record appends e. Callers should log-and-continue on error: an audit
// failure must never be allowed to affect dispatch.
func (t *Trail) Record(e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return t.journal.Append(t.gen.Next(), body)
}

// Scan returns every recorded Entry currently retained, oldest first.
func (t *Trail) Scan() ([]Entry, error) {
	bodies, err := t.journal.Scan()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(bodies))
	for _, body := range bodies {
		var e Entry
		if err := json.Unmarshal(body, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// TrimOlderThan deletes entries recorded before cutoffMs, judged by the
// timestamp embedded in each entry's id when Record appended it (not by
// Entry.DeliveredAtMs), batched in groups of up to batchLimit keys with an
// optional throttle between commits. Returns the number of entries deleted.
func (t *Trail) TrimOlderThan(ctx context.Context, cutoffMs int64, batchLimit int, throttle time.Duration) (int, error) {
	return t.journal.TrimOlderThan(ctx, cutoffMs, batchLimit, throttle)
}
