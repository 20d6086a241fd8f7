package corpus

import (
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fabiokp/chatbot-wto/internal/model"
	"github.com/fabiokp/chatbot-wto/internal/pdf"
)

// SupplementFromPDFs fills in content for records that point at a PDF the
// scraper left empty, when a file with the link's base name exists under
// dir. Records stay untouched on any extraction problem; they are then
// excluded as empty-content records downstream.
func SupplementFromPDFs(records []model.DocumentRecord, dir string) []model.DocumentRecord {
	out := make([]model.DocumentRecord, len(records))
	copy(out, records)

	for i, rec := range out {
		if strings.TrimSpace(rec.Content) != "" {
			continue
		}
		name := pdfBaseName(rec.Link)
		if name == "" {
			continue
		}
		local := filepath.Join(dir, name)
		if _, err := os.Stat(local); err != nil {
			continue
		}
		text, err := pdf.ExtractText(local)
		if err != nil {
			log.Printf("corpus: pdf extraction failed for %s: %v", local, err)
			continue
		}
		out[i].Content = text
	}
	return out
}

func pdfBaseName(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return ""
	}
	return name
}
