// Package corpus loads the scraped legal-texts feed and normalizes it
// into validated document records ready for chunking.
package corpus

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// Canonical links for the feed edits below.
const (
	IntroLink = "https://www.wto.org/english/docs_e/legal_e/legal_e.htm"
	TRIPSLink = "https://www.wto.org/english/docs_e/legal_e/trips_e.htm"
)

var validate = validator.New()

// Load reads a JSON feed file and returns the records ready for
// indexing. When pdfDir is non-empty, records the scraper left without
// content are supplemented from local PDFs before filtering.
func Load(path, pdfDir string) ([]model.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var raw []model.DocumentRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode corpus JSON: %w", err)
	}

	edited := ApplyEdits(raw)
	if pdfDir != "" {
		edited = SupplementFromPDFs(edited, pdfDir)
	}
	return Filter(edited), nil
}

// Parse decodes a JSON array of document records, applies the feed edits
// and drops records that fail validation or carry no content.
func Parse(data []byte) ([]model.DocumentRecord, error) {
	var raw []model.DocumentRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode corpus JSON: %w", err)
	}
	return Filter(ApplyEdits(raw)), nil
}

// Filter drops records that fail validation or carry no content.
// Malformed records are skipped with a log line, not fatal.
func Filter(edited []model.DocumentRecord) []model.DocumentRecord {
	records := make([]model.DocumentRecord, 0, len(edited))
	skipped := 0
	for _, rec := range edited {
		if err := validate.Struct(rec); err != nil {
			log.Printf("corpus: skipping invalid record %q / %q: %v", rec.Document, rec.Title, err)
			skipped++
			continue
		}
		if strings.TrimSpace(rec.Content) == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		log.Printf("corpus: kept %d records, skipped %d (invalid or empty content)", len(records), skipped)
	}
	return records
}

// ApplyEdits applies the ad-hoc fixes the scraped feed needs before
// indexing: the superseded unamended TRIPS entry is dropped, the amended
// TRIPS entry gets the canonical link regardless of what was scraped, and
// the introduction record is prepended with its fixed link when the
// scraper did not already emit one.
func ApplyEdits(records []model.DocumentRecord) []model.DocumentRecord {
	out := make([]model.DocumentRecord, 0, len(records)+1)
	if len(records) == 0 || records[0].Document != "Introduction" {
		out = append(out, model.DocumentRecord{
			Document: "Introduction",
			Title:    "WTO Legal Texts",
			Link:     IntroLink,
		})
	}

	for _, rec := range records {
		if rec.Document == "Introduction" {
			rec.Link = IntroLink
		}
		if !strings.HasPrefix(rec.Document, "Annex 1C") {
			out = append(out, rec)
			continue
		}
		switch normalizeTitle(rec.Title) {
		case "original, unamended version":
			continue
		case "amended on 23 January 2017":
			rec.Link = TRIPSLink
		}
		out = append(out, rec)
	}
	return out
}

// normalizeTitle collapses runs of whitespace; the scraper leaves double
// spaces behind when it strips non-breaking spaces.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
