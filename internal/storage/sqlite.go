package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the interface accepted by NewSqlite. It abstracts the database
// operations needed by Sqlite so that callers can supply a real *sql.DB or a
// wrapper that injects faults, records calls, etc.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

const idCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func generateId() string {
	return gonanoid.MustGenerate(idCharset, 6)
}

//go:embed schema.sql
var schemaSQL string

// Sqlite stores exchanges in a SQLite database. Do not access its internal
// database directly.
type Sqlite struct {
	db          DB
	idGenerator func() string
	now         func() time.Time
	closer      func() error
}

// NewSqlite runs the embedded schema DDL against db and returns the store.
// The caller is responsible for opening and closing db.
func NewSqlite(ctx context.Context, db DB) (*Sqlite, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Sqlite{
		db:          db,
		idGenerator: generateId,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Open opens (creating if needed) the history database at path. Close must
// be called to release it.
func Open(ctx context.Context, path string) (*Sqlite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s, err := NewSqlite(ctx, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	s.closer = sqlDB.Close
	return s, nil
}

// Close releases the database if it was opened by Open.
func (s *Sqlite) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *Sqlite) generateUniqueIDInTx(ctx context.Context, tx *sql.Tx) (string, error) {
	for range 10 {
		id := s.idGenerator()
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM exchanges WHERE id = ?)`, id).Scan(&exists)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique exchange ID")
}

func (s *Sqlite) SaveExchange(ctx context.Context, ex Exchange) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.generateUniqueIDInTx(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to generate exchange ID: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exchanges (id, session_id, action, prompt, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, ex.SessionID, ex.Action, ex.Prompt, s.now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create exchange: %w", err)
	}

	for seq, content := range ex.Fragments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fragments (exchange_id, seq, content) VALUES (?, ?, ?)`,
			id, seq, content,
		)
		if err != nil {
			return "", fmt.Errorf("failed to create fragment %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (s *Sqlite) fragments(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content FROM fragments WHERE exchange_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query fragments: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan fragment: %w", err)
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

func (s *Sqlite) GetExchange(ctx context.Context, id string) (Exchange, error) {
	var ex Exchange
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, action, prompt, created_at FROM exchanges WHERE id = ?`, id,
	).Scan(&ex.ID, &ex.SessionID, &ex.Action, &ex.Prompt, &ex.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Exchange{}, fmt.Errorf("exchange %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Exchange{}, fmt.Errorf("failed to get exchange %s: %w", id, err)
	}

	ex.Fragments, err = s.fragments(ctx, id)
	if err != nil {
		return Exchange{}, err
	}
	return ex, nil
}

func (s *Sqlite) ListExchanges(ctx context.Context, opts ListExchangesOptions) iter.Seq2[Exchange, error] {
	return func(yield func(Exchange, error) bool) {
		query := `SELECT id, session_id, action, prompt, created_at FROM exchanges`
		var args []any
		if opts.SessionID != "" {
			query += ` WHERE session_id = ?`
			args = append(args, opts.SessionID)
		}
		if opts.Ascending {
			query += ` ORDER BY created_at ASC, rowid ASC`
		} else {
			query += ` ORDER BY created_at DESC, rowid DESC`
		}
		if opts.Limit > 0 {
			query += ` LIMIT ?`
			args = append(args, opts.Limit)
		}

		// collect headers first so the fragment queries do not run while
		// the outer cursor holds the connection
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(Exchange{}, fmt.Errorf("failed to list exchanges: %w", err))
			return
		}
		var headers []Exchange
		for rows.Next() {
			var ex Exchange
			if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.Action, &ex.Prompt, &ex.CreatedAt); err != nil {
				rows.Close()
				yield(Exchange{}, fmt.Errorf("failed to scan exchange: %w", err))
				return
			}
			headers = append(headers, ex)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			yield(Exchange{}, fmt.Errorf("failed to list exchanges: %w", err))
			return
		}

		for _, ex := range headers {
			ex.Fragments, err = s.fragments(ctx, ex.ID)
			if err != nil {
				yield(Exchange{}, err)
				return
			}
			if !yield(ex, nil) {
				return
			}
		}
	}
}

func (s *Sqlite) DeleteExchange(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fragments WHERE exchange_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete fragments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exchanges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exchange: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("exchange %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
