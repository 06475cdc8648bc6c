package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/render"
	"github.com/ranaklabs/ranak/internal/storage"
)

const promptPreviewLen = 60

// HistoryListOptions contains parameters for listing recorded exchanges
type HistoryListOptions struct {
	DB        storage.ExchangesLister
	SessionID string
	Limit     int
	Writer    io.Writer
}

// HistoryList prints one line per exchange, newest first
func HistoryList(ctx context.Context, opts HistoryListOptions) error {
	n := 0
	for ex, err := range opts.DB.ListExchanges(ctx, storage.ListExchangesOptions{
		SessionID: opts.SessionID,
		Limit:     opts.Limit,
	}) {
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		fmt.Fprintf(opts.Writer, "%s  %s  %-9s  %s\n",
			ex.ID, ex.CreatedAt.Local().Format(time.DateTime), ex.Action, preview(ex.Prompt))
		n++
	}
	if n == 0 {
		fmt.Fprintln(opts.Writer, "No exchanges found.")
	}
	return nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= promptPreviewLen {
		return s
	}
	return string(r[:promptPreviewLen-1]) + "…"
}

// HistoryShowOptions contains parameters for printing one exchange
type HistoryShowOptions struct {
	DB       storage.ExchangeGetter
	ID       string
	Renderer render.Renderer
	Writer   io.Writer
}

// HistoryShow prints the prompt and rendered reply of an exchange
func HistoryShow(ctx context.Context, opts HistoryShowOptions) error {
	ex, err := opts.DB.GetExchange(ctx, opts.ID)
	if err != nil {
		return err
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = &render.PlainTextRenderer{}
	}

	fmt.Fprintf(opts.Writer, "Exchange %s (%s, session %s, %s)\n\n",
		ex.ID, ex.Action, ex.SessionID, ex.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(opts.Writer, "== Prompt ==\n\n%s\n\n== Response ==\n\n", ex.Prompt)
	fmt.Fprintln(opts.Writer, render.Fragments(renderer, ex.Fragments))
	return nil
}

// HistoryExportOptions contains parameters for exporting a recorded exchange
type HistoryExportOptions struct {
	DB       storage.ExchangeGetter
	ID       string
	Exporter *export.Exporter
	// Formats defaults to every format.
	Formats []export.Format
	Dir     string
	Writer  io.Writer
}

// HistoryExport renders the fragments of a stored exchange and writes them
// to Dir
func HistoryExport(ctx context.Context, opts HistoryExportOptions) error {
	ex, err := opts.DB.GetExchange(ctx, opts.ID)
	if err != nil {
		return err
	}
	if len(ex.Fragments) == 0 {
		return fmt.Errorf("exchange %s has no responses to export", ex.ID)
	}

	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.New(export.Options{})
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = export.Formats
	}

	var errs []error
	for _, f := range formats {
		a, err := exporter.Export(f, ex.Fragments)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path, err := a.Save(opts.Dir)
		if err != nil {
			errs = append(errs, &export.ExportError{Format: f, Err: err})
			continue
		}
		fmt.Fprintf(opts.Writer, "Saved %s\n", path)
	}
	return errors.Join(errs...)
}

// HistoryDeleteOptions contains parameters for deleting exchanges
type HistoryDeleteOptions struct {
	DB        storage.ExchangeDeleter
	IDs       []string
	Writer    io.Writer
	ErrWriter io.Writer
}

// HistoryDelete deletes each ID, continuing past failures. It returns an
// error if any deletion failed.
func HistoryDelete(ctx context.Context, opts HistoryDeleteOptions) error {
	failed := 0
	for _, id := range opts.IDs {
		if err := opts.DB.DeleteExchange(ctx, id); err != nil {
			fmt.Fprintf(opts.ErrWriter, "Error deleting exchange %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(opts.Writer, "Successfully deleted exchange %s\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d exchanges", failed, len(opts.IDs))
	}
	return nil
}
