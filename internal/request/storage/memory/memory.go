// package memory provides an in-memory store of the most recent request
// records.
package memory

import (
	"sync"

	"github.com/davseby/adgateway/internal/request"
	"golang.org/x/exp/slog"
)

// Hub is an in-memory requests hub. It keeps at most limit records,
// the oldest records are overwritten first.
type Hub struct {
	log *slog.Logger

	mu    sync.RWMutex
	reqs  []request.Record
	next  int
	limit int
}

// NewHub creates a new request hub. A non positive limit keeps a single
// record.
func NewHub(log *slog.Logger, limit int) *Hub {
	if limit < 1 {
		limit = 1
	}

	return &Hub{
		log:   log.With("job", "requests-hub"),
		reqs:  make([]request.Record, 0, limit),
		limit: limit,
	}
}

// Handle stores a request record.
func (h *Hub) Handle(rec request.Record) error {
	h.log.Debug("storing request record", slog.String("host", rec.Host))

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.reqs) < h.limit {
		h.reqs = append(h.reqs, rec)
		return nil
	}

	h.reqs[h.next] = rec
	h.next = (h.next + 1) % h.limit

	return nil
}

// Recent returns the stored records, newest first.
func (h *Hub) Recent() []request.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	res := make([]request.Record, 0, len(h.reqs))

	// NOTE: Until the hub is full next stays at zero, so the loop
	// walks the slice backwards from its end.
	for i := 1; i <= len(h.reqs); i++ {
		idx := (h.next - i + len(h.reqs)) % len(h.reqs)
		res = append(res, h.reqs[idx])
	}

	return res
}
