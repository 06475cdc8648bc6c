package export

import (
	"fmt"
	"strings"
)

// Format is one of the supported document formats.
type Format int

const (
	Word Format = iota
	CSV
	PDF
)

// Formats lists every format in download order.
var Formats = []Format{Word, CSV, PDF}

func (f Format) String() string {
	switch f {
	case Word:
		return "word"
	case CSV:
		return "csv"
	case PDF:
		return "pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Label is the name shown on the download action.
func (f Format) Label() string {
	switch f {
	case Word:
		return "Download Word"
	case CSV:
		return "Download CSV"
	case PDF:
		return "Download PDF"
	default:
		return f.String()
	}
}

func (f Format) Extension() string {
	switch f {
	case Word:
		return ".docx"
	case CSV:
		return ".csv"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

func (f Format) MIMEType() string {
	switch f {
	case Word:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case CSV:
		return "text/csv"
	case PDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "word", "docx":
		return Word, nil
	case "csv":
		return CSV, nil
	case "pdf":
		return PDF, nil
	default:
		return 0, fmt.Errorf("unknown export format %q (want word, csv or pdf)", s)
	}
}
