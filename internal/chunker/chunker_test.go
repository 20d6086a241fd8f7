package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

func rec(content string) model.DocumentRecord {
	return model.DocumentRecord{
		Document: "Annex 1A",
		Title:    "GATT 1994",
		Link:     "https://www.wto.org/english/docs_e/legal_e/gatt47_e.htm",
		Content:  content,
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(100, 100)
	assert.Error(t, err)

	_, err = New(100, -1)
	assert.Error(t, err)
}

func TestSplitEmptyContent(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)
	assert.Empty(t, c.Split(rec("")))
}

func TestSplitShortContentSingleChunk(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split(rec("short text"))
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartIndex)
	assert.Equal(t, "Annex 1A", chunks[0].Document)
	assert.Equal(t, "GATT 1994", chunks[0].Title)
}

func TestSplitOffsetsAndOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 25) // 250 runes
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split(rec(text))
	require.Len(t, chunks, 3)

	runes := []rune(text)
	prev := -1
	for _, ch := range chunks {
		// offsets strictly increasing and text matches the source slice
		assert.Greater(t, ch.StartIndex, prev)
		prev = ch.StartIndex
		assert.Equal(t, string(runes[ch.StartIndex:ch.StartIndex+len([]rune(ch.Text))]), ch.Text)
		assert.LessOrEqual(t, len([]rune(ch.Text)), 100)
	}

	assert.Equal(t, 0, chunks[0].StartIndex)
	assert.Equal(t, 80, chunks[1].StartIndex)
	assert.Equal(t, 160, chunks[2].StartIndex)
	// last chunk absorbs the remainder
	assert.Equal(t, 90, len([]rune(chunks[2].Text)))
}

func TestSplitCoversEveryRune(t *testing.T) {
	text := strings.Repeat("x", 1234)
	c, err := New(100, 30)
	require.NoError(t, err)

	chunks := c.Split(rec(text))
	covered := make([]bool, len(text))
	for _, ch := range chunks {
		for i := 0; i < len([]rune(ch.Text)); i++ {
			covered[ch.StartIndex+i] = true
		}
	}
	for i, ok := range covered {
		require.True(t, ok, "rune %d not covered", i)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	c, err := New(DefaultSize, DefaultOverlap)
	require.NoError(t, err)

	a := c.Split(rec(text))
	b := c.Split(rec(text))
	assert.Equal(t, a, b)
}

func TestSplitMultibyteOffsets(t *testing.T) {
	text := strings.Repeat("açúcar é doce ", 20)
	c, err := New(50, 10)
	require.NoError(t, err)

	runes := []rune(text)
	for _, ch := range c.Split(rec(text)) {
		got := string(runes[ch.StartIndex : ch.StartIndex+len([]rune(ch.Text))])
		assert.Equal(t, got, ch.Text)
	}
}

func TestSplitAllSkipsEmptyRecords(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.SplitAll([]model.DocumentRecord{
		rec("some content"),
		rec(""),
		rec("more content"),
	})
	assert.Len(t, chunks, 2)
}
