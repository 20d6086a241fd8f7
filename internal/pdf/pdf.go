// Package pdf extracts plain text from local PDF files, for feed records
// whose content the scraper could not pull over HTTP.
package pdf

import (
	"fmt"
	"strings"

	"rsc.io/pdf"
)

// ExtractText concatenates the text of every page, dropping NUL bytes
// some WTO PDFs carry in their content streams.
func ExtractText(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
		}
		sb.WriteString("\n")
	}
	return Sanitize(sb.String()), nil
}

// Sanitize collapses all whitespace runs to single spaces, matching the
// normalization the scraper applies to HTML content.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
