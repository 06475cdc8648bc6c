package export

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CSVHeader is the single column heading of the CSV export.
const CSVHeader = "Assistant Responses"

// writeCSV writes one single-field record per fragment, terminated by CRLF.
// Field contents are written as-is: newlines inside a reply are not
// rewritten, and an empty reply is written as "" so it survives a read back.
func writeCSV(w io.Writer, fragments []string) error {
	bw := bufio.NewWriter(w)
	writeCSVRecord(bw, CSVHeader)
	for _, f := range fragments {
		writeCSVRecord(bw, f)
	}
	// bufio keeps the first write error and returns it here
	return bw.Flush()
}

func writeCSVRecord(w *bufio.Writer, field string) {
	if csvFieldNeedsQuotes(field) {
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	} else {
		w.WriteString(field)
	}
	w.WriteString("\r\n")
}

func csvFieldNeedsQuotes(field string) bool {
	if field == "" || field == `\.` {
		return true
	}
	if strings.ContainsAny(field, "\",\r\n") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(field)
	return unicode.IsSpace(r)
}
