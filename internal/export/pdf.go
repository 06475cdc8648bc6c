package export

import (
	"io"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	pdfBottomMargin = 15
	pdfLineHeight   = 10
	pdfFontSize     = 12
)

// pdfEpoch is stamped as creation and modification date so repeated exports
// of the same fragments are byte-identical.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// writePDF renders one MultiCell per fragment with the Arial core font.
// Core fonts only cover Windows-1252, so characters outside it (CJK, most
// math symbols, emoji) come out as "?"; a warning reports how many.
func writePDF(w io.Writer, fragments []string) (int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.AddPage()
	pdf.SetFont("Arial", "", pdfFontSize)

	// core fonts are cp1252; translate UTF-8 so accented text survives
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	lost := 0
	for _, f := range fragments {
		lost += countNonCP1252(f)
		pdf.MultiCell(0, pdfLineHeight, tr(f), "", "", false)
	}
	if lost > 0 {
		slog.Warn("pdf export replaced characters outside Windows-1252", "count", lost)
	}

	pages := pdf.PageCount()
	if err := pdf.Output(w); err != nil {
		return 0, err
	}
	return pages, nil
}

func countNonCP1252(s string) int {
	n := 0
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			n++
		}
	}
	return n
}
