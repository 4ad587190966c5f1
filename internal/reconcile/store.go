package reconcile

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
)

// Record is anything the store can hold; the id is the backend's numeric
// primary key, or a temporary local id for optimistically created rows.
type Record interface {
	RecordID() int64
}

// Store keeps an in-memory copy of one entity list (products,
// transportation rates, orders) and reconciles it against the remote
// backend: optimistic mutation first, remote call second, rollback on
// failure. The remote list is authoritative; this copy only exists so the
// admin surface reflects changes immediately.
//
// A mutex stands in for the original's single-threaded event loop.
// Overlapping mutations on different records still race exactly as before;
// only the delete/silent-reload pair is serialized, via the per-id in-flight
// guard, because that race can transiently resurrect a row the user just
// removed.
type Store[T Record] struct {
	mu       sync.Mutex
	items    []T
	total    int
	loaded   bool
	deleting map[int64]struct{}
}

// NewStore returns an empty store.
func NewStore[T Record]() *Store[T] {
	return &Store[T]{deleting: map[int64]struct{}{}}
}

// Replace installs a freshly fetched authoritative list (foreground reload).
func (s *Store[T]) Replace(items []T, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T(nil), items...)
	s.total = total
	s.loaded = true
}

// Loaded reports whether the store holds a fetched list.
func (s *Store[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Items returns a snapshot copy of the list and the tracked total.
func (s *Store[T]) Items() ([]T, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...), s.total
}

// Get finds a record by id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Delete optimistically removes id, issues the remote delete, and on success
// triggers a background silent reload. On failure the exact pre-delete list
// and count are restored and the error is returned for surfacing. A second
// delete for an id still mid-flight is rejected rather than queued.
func (s *Store[T]) Delete(ctx context.Context, id int64, remove func(context.Context) error, reload func(context.Context) ([]T, int, error)) error {
	s.mu.Lock()
	if _, busy := s.deleting[id]; busy {
		s.mu.Unlock()
		return fmt.Errorf("record %d is already being deleted", id)
	}

	prevItems := append([]T(nil), s.items...)
	prevTotal := s.total

	kept := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	if s.total > 0 {
		s.total--
	}
	s.deleting[id] = struct{}{}
	s.mu.Unlock()

	if err := remove(ctx); err != nil {
		s.mu.Lock()
		s.items = prevItems
		s.total = prevTotal
		delete(s.deleting, id)
		s.mu.Unlock()
		return err
	}

	if reload != nil {
		go s.SilentReload(context.Background(), id, reload)
	} else {
		s.clearDeleting(id)
	}
	return nil
}

// SilentReload refreshes the list in the background without any loading
// indicator. Rows still marked mid-delete are filtered out of the fetched
// snapshot, so a reload that races a slow backend deletion cannot
// reintroduce the removed record. Errors are swallowed: the optimistic
// state already reflects what the user saw happen.
func (s *Store[T]) SilentReload(ctx context.Context, settledID int64, reload func(context.Context) ([]T, int, error)) {
	items, total, err := reload(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if settledID != 0 {
		delete(s.deleting, settledID)
	}
	if err != nil {
		return
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if _, mid := s.deleting[item.RecordID()]; mid {
			total--
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.total = total
	s.loaded = true
}

func (s *Store[T]) clearDeleting(id int64) {
	s.mu.Lock()
	delete(s.deleting, id)
	s.mu.Unlock()
}

// CreateOrUpdate submits a pre-validated payload. When the backend echoes a
// usable record it is merged as the source of truth; otherwise synthesize
// builds one from the submitted form values — with a random temporary id
// for new records, reconciled on the next full reload. Any failure leaves
// the list untouched.
func (s *Store[T]) CreateOrUpdate(ctx context.Context, id int64, submit func(context.Context) (*T, error), synthesize func(localID int64) T) (T, error) {
	var zero T

	returned, err := submit(ctx)
	if err != nil {
		return zero, err
	}

	record := returned

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != 0 {
		if record == nil {
			local := synthesize(id)
			record = &local
		}
		for i, item := range s.items {
			if item.RecordID() == id {
				s.items[i] = *record
				return *record, nil
			}
		}
		// edited a row the local list no longer has; treat as new below
	}

	if record == nil {
		local := synthesize(TempID())
		record = &local
	}
	s.items = append([]T{*record}, s.items...)
	s.total++
	return *record, nil
}

// Mutate applies an optimistic in-place change to one record, then submits
// it; the previous value is restored when the remote call fails. Used for
// the order status dropdown.
func (s *Store[T]) Mutate(ctx context.Context, id int64, apply func(T) T, submit func(context.Context) error) error {
	s.mu.Lock()
	idx := -1
	for i, item := range s.items {
		if item.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("record %d not found", id)
	}
	prev := s.items[idx]
	s.items[idx] = apply(prev)
	s.mu.Unlock()

	if err := submit(ctx); err != nil {
		s.mu.Lock()
		for i, item := range s.items {
			if item.RecordID() == id {
				s.items[i] = prev
				break
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// TempID generates a random 32-bit positive identifier for optimistically
// created records that the backend response did not name.
func TempID() int64 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.BigEndian.Uint32(buf[:]))
}
