package storage

import (
	"context"
	"errors"
	"iter"
	"time"
)

// ErrNotFound is returned when an exchange ID does not exist.
var ErrNotFound = errors.New("exchange not found")

// Exchange is one completed request/response cycle of a session: the
// composed prompt that was sent and the reply fragments in arrival order.
type Exchange struct {
	ID        string
	SessionID string
	// Action is the name of the action that produced the prompt, e.g. "ask".
	Action    string
	Prompt    string
	Fragments []string
	CreatedAt time.Time
}

// ExchangeSaver persists completed exchanges.
type ExchangeSaver interface {
	// SaveExchange stores ex in a single transaction and returns the
	// assigned ID. ex.ID and ex.CreatedAt are ignored and set by the store.
	SaveExchange(ctx context.Context, ex Exchange) (string, error)
}

// ListExchangesOptions narrows ListExchanges.
type ListExchangesOptions struct {
	// SessionID restricts the listing to one session when non-empty.
	SessionID string
	// Limit caps the number of exchanges. Zero means no limit.
	Limit int
	// Ascending lists oldest first. The default is newest first.
	Ascending bool
}

type ExchangesLister interface {
	// ListExchanges yields exchanges with their fragments. Iteration stops
	// after the first error.
	ListExchanges(ctx context.Context, opts ListExchangesOptions) iter.Seq2[Exchange, error]
}

type ExchangeGetter interface {
	// GetExchange returns the exchange with id, or an error wrapping
	// ErrNotFound.
	GetExchange(ctx context.Context, id string) (Exchange, error)
}

type ExchangeDeleter interface {
	// DeleteExchange removes an exchange and its fragments, or returns an
	// error wrapping ErrNotFound.
	DeleteExchange(ctx context.Context, id string) error
}

// HistoryDB is the unified interface for transcript history. Consumers that
// need a single operation should depend on the narrower interface.
type HistoryDB interface {
	ExchangeSaver
	ExchangesLister
	ExchangeGetter
	ExchangeDeleter
}
