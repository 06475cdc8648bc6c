package export

import (
	"io"
	"strings"

	"baliance.com/gooxml/document"
)

// writeDocx emits one paragraph per fragment. Line breaks inside a fragment
// become soft breaks in the same paragraph.
func writeDocx(w io.Writer, fragments []string) error {
	doc := document.New()
	for _, f := range fragments {
		run := doc.AddParagraph().AddRun()
		for i, line := range strings.Split(f, "\n") {
			if i > 0 {
				run.AddBreak()
			}
			run.AddText(line)
		}
	}
	return doc.Save(w)
}
