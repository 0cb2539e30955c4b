// Package dedupe remembers recently seen wear event ids so a retried
// submission is applied at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 4096

// Deduper records seen event IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen. A newly recorded id is pending
	// and never evicted until Release or Unrecord.
	SeenAndRecord(ctx context.Context, id string) bool

	// Release marks a pending id as applied. From then on it counts towards
	// the size bound and may be evicted, oldest first.
	Release(ctx context.Context, id string)

	// Unrecord forgets id so that a failed submission can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps in-flight ids in a pending set and applied ids in
// release order. Only applied ids are evicted, once maxSize is reached.
// maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	pending map[string]struct{}
	applied map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.pending = make(map[string]struct{})
	d.applied = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[id]; ok {
		return true
	}
	if _, ok := d.applied[id]; ok {
		return true
	}
	d.pending[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Release(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[id]; !ok {
		return
	}
	delete(d.pending, id)
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.applied, oldest.Value.(string))
	}
	d.applied[id] = d.order.PushBack(id)
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.pending, id)
	if el, ok := d.applied[id]; ok {
		d.order.Remove(el)
		delete(d.applied, id)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.pending) + d.order.Len())
}
