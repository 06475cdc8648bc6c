package storage

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"
)

// MemDB is an in-memory implementation of HistoryDB. It is intended for use
// in tests as a drop-in replacement for the SQLite-backed store.
type MemDB struct {
	mu        sync.Mutex
	exchanges []Exchange
	// nextID is a simple incrementing counter for generating unique IDs.
	nextID int
	now    func() time.Time
}

func NewMemDB() *MemDB {
	return &MemDB{now: time.Now}
}

func (m *MemDB) SaveExchange(ctx context.Context, ex Exchange) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	ex.ID = fmt.Sprintf("mem_%d", m.nextID)
	ex.CreatedAt = m.now().UTC()
	ex.Fragments = slices.Clone(ex.Fragments)
	m.exchanges = append(m.exchanges, ex)
	return ex.ID, nil
}

func (m *MemDB) GetExchange(ctx context.Context, id string) (Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ex := range m.exchanges {
		if ex.ID == id {
			ex.Fragments = slices.Clone(ex.Fragments)
			return ex, nil
		}
	}
	return Exchange{}, fmt.Errorf("exchange %s: %w", id, ErrNotFound)
}

func (m *MemDB) ListExchanges(ctx context.Context, opts ListExchangesOptions) iter.Seq2[Exchange, error] {
	return func(yield func(Exchange, error) bool) {
		m.mu.Lock()
		var matched []Exchange
		for _, ex := range m.exchanges {
			if opts.SessionID != "" && ex.SessionID != opts.SessionID {
				continue
			}
			ex.Fragments = slices.Clone(ex.Fragments)
			matched = append(matched, ex)
		}
		m.mu.Unlock()

		if !opts.Ascending {
			slices.Reverse(matched)
		}
		if opts.Limit > 0 && len(matched) > opts.Limit {
			matched = matched[:opts.Limit]
		}
		for _, ex := range matched {
			if !yield(ex, nil) {
				return
			}
		}
	}
}

func (m *MemDB) DeleteExchange(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.exchanges, func(ex Exchange) bool { return ex.ID == id })
	if i < 0 {
		return fmt.Errorf("exchange %s: %w", id, ErrNotFound)
	}
	m.exchanges = slices.Delete(m.exchanges, i, i+1)
	return nil
}
