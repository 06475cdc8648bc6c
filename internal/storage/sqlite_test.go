package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *Sqlite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ds, err := NewSqlite(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSqlite: %v", err)
	}
	return ds
}

// stores returns every HistoryDB implementation so behaviour is checked
// against both.
func stores(t *testing.T) map[string]HistoryDB {
	return map[string]HistoryDB{
		"sqlite": newTestDB(t),
		"memdb":  NewMemDB(),
	}
}

func collect(t *testing.T, seq func(func(Exchange, error) bool)) []Exchange {
	t.Helper()
	var out []Exchange
	for ex, err := range seq {
		if err != nil {
			t.Fatalf("ListExchanges: %v", err)
		}
		out = append(out, ex)
	}
	return out
}

func TestSaveAndGetExchange(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := Exchange{
				SessionID: "sess01",
				Action:    "ask",
				Prompt:    "What is entropy?",
				Fragments: []string{"Entropy is a measure of disorder.", "Second fragment"},
			}
			before := time.Now().UTC().Add(-time.Second)

			id, err := db.SaveExchange(ctx, in)
			if err != nil {
				t.Fatalf("SaveExchange: %v", err)
			}
			if id == "" {
				t.Fatal("expected a non-empty ID")
			}

			got, err := db.GetExchange(ctx, id)
			if err != nil {
				t.Fatalf("GetExchange: %v", err)
			}
			want := in
			want.ID = id
			if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Exchange{}, "CreatedAt")); diff != "" {
				t.Errorf("exchange mismatch (-want +got):\n%s", diff)
			}
			if got.CreatedAt.Before(before) {
				t.Errorf("CreatedAt %v is before %v", got.CreatedAt, before)
			}
		})
	}
}

func TestGetExchange_NotFound(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.GetExchange(context.Background(), "nope")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSaveExchange_NoFragments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.SaveExchange(ctx, Exchange{SessionID: "s", Action: "ask", Prompt: "q"})
	if err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	got, err := db.GetExchange(ctx, id)
	if err != nil {
		t.Fatalf("GetExchange: %v", err)
	}
	if len(got.Fragments) != 0 {
		t.Errorf("expected no fragments, got %v", got.Fragments)
	}
}

func TestListExchanges(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var ids []string
			for i, sess := range []string{"a", "b", "a"} {
				id, err := db.SaveExchange(ctx, Exchange{
					SessionID: sess,
					Action:    "ask",
					Prompt:    string(rune('x' + i)),
					Fragments: []string{"reply"},
				})
				if err != nil {
					t.Fatalf("SaveExchange: %v", err)
				}
				ids = append(ids, id)
			}

			idsOf := func(exs []Exchange) []string {
				var out []string
				for _, ex := range exs {
					out = append(out, ex.ID)
				}
				return out
			}

			newest := collect(t, db.ListExchanges(ctx, ListExchangesOptions{}))
			reversed := slices.Clone(ids)
			slices.Reverse(reversed)
			if diff := cmp.Diff(reversed, idsOf(newest)); diff != "" {
				t.Errorf("newest first mismatch (-want +got):\n%s", diff)
			}

			oldest := collect(t, db.ListExchanges(ctx, ListExchangesOptions{Ascending: true}))
			if diff := cmp.Diff(ids, idsOf(oldest)); diff != "" {
				t.Errorf("oldest first mismatch (-want +got):\n%s", diff)
			}

			sessA := collect(t, db.ListExchanges(ctx, ListExchangesOptions{SessionID: "a", Ascending: true}))
			if diff := cmp.Diff([]string{ids[0], ids[2]}, idsOf(sessA)); diff != "" {
				t.Errorf("session filter mismatch (-want +got):\n%s", diff)
			}

			limited := collect(t, db.ListExchanges(ctx, ListExchangesOptions{Limit: 1}))
			if len(limited) != 1 || limited[0].ID != ids[2] {
				t.Errorf("expected only the newest exchange, got %v", idsOf(limited))
			}
			if diff := cmp.Diff([]string{"reply"}, limited[0].Fragments); diff != "" {
				t.Errorf("fragments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeleteExchange(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, err := db.SaveExchange(ctx, Exchange{SessionID: "s", Action: "summarize", Prompt: "p", Fragments: []string{"f"}})
			if err != nil {
				t.Fatalf("SaveExchange: %v", err)
			}

			if err := db.DeleteExchange(ctx, id); err != nil {
				t.Fatalf("DeleteExchange: %v", err)
			}
			if _, err := db.GetExchange(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := db.DeleteExchange(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestDeleteExchange_RemovesFragments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	id, err := db.SaveExchange(ctx, Exchange{SessionID: "s", Action: "ask", Prompt: "p", Fragments: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	if err := db.DeleteExchange(ctx, id); err != nil {
		t.Fatalf("DeleteExchange: %v", err)
	}

	var n int
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragments WHERE exchange_id = ?`, id).Scan(&n); err != nil {
		t.Fatalf("count fragments: %v", err)
	}
	if n != 0 {
		t.Errorf("expected fragments to be deleted, found %d", n)
	}
}

func TestSaveExchange_IDCollision(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ids := []string{"aaaaaa", "aaaaaa", "bbbbbb"}
	db.idGenerator = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := db.SaveExchange(ctx, Exchange{SessionID: "s", Action: "ask", Prompt: "1"})
	if err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	second, err := db.SaveExchange(ctx, Exchange{SessionID: "s", Action: "ask", Prompt: "2"})
	if err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	if first != "aaaaaa" || second != "bbbbbb" {
		t.Errorf("unexpected IDs %q, %q", first, second)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.SaveExchange(context.Background(), Exchange{SessionID: "s", Action: "ask", Prompt: "q"}); err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
}
