package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

func TestSupplementFromPDFsLeavesFilledAndMissingAlone(t *testing.T) {
	records := []model.DocumentRecord{
		{Document: "Annex 1A", Title: "GATT 1994", Link: "https://www.wto.org/english/docs_e/legal_e/06-gatt.pdf", Content: "already scraped"},
		{Document: "Annex 1A", Title: "Agreement on Agriculture", Link: "https://www.wto.org/english/docs_e/legal_e/14-ag.pdf", Content: ""},
		{Document: "Annex 1B", Title: "GATS", Link: "https://www.wto.org/english/docs_e/legal_e/26-gats_e.htm", Content: ""},
	}

	out := SupplementFromPDFs(records, t.TempDir())

	// scraped content untouched, missing pdf and html links left empty
	assert.Equal(t, "already scraped", out[0].Content)
	assert.Empty(t, out[1].Content)
	assert.Empty(t, out[2].Content)

	// input slice not mutated
	assert.Equal(t, "already scraped", records[0].Content)
}

func TestPDFBaseName(t *testing.T) {
	assert.Equal(t, "14-ag.pdf", pdfBaseName("https://www.wto.org/english/docs_e/legal_e/14-ag.pdf"))
	assert.Equal(t, "", pdfBaseName("https://www.wto.org/english/docs_e/legal_e/26-gats_e.htm"))
	assert.Equal(t, "", pdfBaseName(""))
}
