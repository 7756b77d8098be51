package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

func textBlock(style string, text string) content.Block {
	return content.Block{
		Type:     content.BlockTypeText,
		Style:    style,
		Children: []content.Span{{Text: text}},
	}
}

func TestCompileMergesAdjacentTextBlocks(t *testing.T) {
	doc := []content.Block{
		textBlock(content.StyleNormal, "First paragraph."),
		textBlock(content.StyleNormal, "Second paragraph."),
		{Type: content.EmbedGallery, Payload: map[string]any{"images": []any{"a.jpg"}}},
		textBlock(content.StyleNormal, "Third paragraph."),
	}

	chunks := Compile(doc, nil)

	require.Len(t, chunks, 3, "run / embed / run")

	assert.Equal(t, content.ChunkHTML, chunks[0].Kind)
	assert.Equal(t, "<p>First paragraph.</p><p>Second paragraph.</p>", chunks[0].HTML)

	assert.Equal(t, content.ChunkEmbed, chunks[1].Kind)
	assert.Equal(t, content.EmbedGallery, chunks[1].Embed)
	assert.NotNil(t, chunks[1].Payload)

	assert.Equal(t, content.ChunkHTML, chunks[2].Kind)
	assert.Equal(t, "<p>Third paragraph.</p>", chunks[2].HTML)
}

func TestCompileEmptyDocument(t *testing.T) {
	chunks := Compile(nil, nil)
	require.NotNil(t, chunks)
	assert.Empty(t, chunks)
}

func TestCompileAdjacentEmbeds(t *testing.T) {
	doc := []content.Block{
		{Type: content.EmbedVideo, Payload: map[string]any{"url": "v"}},
		{Type: content.EmbedTable, Payload: map[string]any{"rows": []any{}}},
	}

	chunks := Compile(doc, nil)

	require.Len(t, chunks, 2)
	assert.Equal(t, content.EmbedVideo, chunks[0].Embed)
	assert.Equal(t, content.EmbedTable, chunks[1].Embed)
}

func TestCompileHeadingAnchors(t *testing.T) {
	doc := []content.Block{
		textBlock(content.StyleH2, "Overview"),
		textBlock(content.StyleH3, "Performance Details"),
		textBlock(content.StyleH2, "Overview"),
		textBlock(content.StyleH2, "Overview"),
	}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)

	html := chunks[0].HTML
	assert.Contains(t, html, `<h2 id="overview">Overview</h2>`)
	assert.Contains(t, html, `<h3 id="performance-details">Performance Details</h3>`)
	assert.Contains(t, html, `<h2 id="overview-2">Overview</h2>`)
	assert.Contains(t, html, `<h2 id="overview-3">Overview</h2>`)
}

func TestCompileHeadingAnchorEmptyText(t *testing.T) {
	doc := []content.Block{
		textBlock(content.StyleH2, "!!!"),
	}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].HTML, `<h2 id="section">`)
}

func TestCompileBlockquote(t *testing.T) {
	doc := []content.Block{textBlock(content.StyleQuote, "A bold claim.")}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, "<blockquote>A bold claim.</blockquote>", chunks[0].HTML)
}

func TestCompileMarksAndMarkDefs(t *testing.T) {
	doc := []content.Block{
		{
			Type:  content.BlockTypeText,
			Style: content.StyleNormal,
			Children: []content.Span{
				{Text: "plain "},
				{Text: "bold italic", Marks: []string{"strong", "em"}},
				{Text: " and a "},
				{Text: "link", Marks: []string{"l1"}},
			},
			MarkDefs: []content.MarkDef{
				{Key: "l1", Type: "link", Href: "https://example.com/review"},
			},
		},
	}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)

	// First listed mark is the outermost wrapper.
	assert.Contains(t, chunks[0].HTML, "<strong><em>bold italic</em></strong>")
	assert.Contains(t, chunks[0].HTML, `<a href="https://example.com/review">link</a>`)
}

func TestCompileSkipsMalformedMarkReference(t *testing.T) {
	doc := []content.Block{
		{
			Type:  content.BlockTypeText,
			Style: content.StyleNormal,
			Children: []content.Span{
				{Text: "dangling", Marks: []string{"missing-def", "strong"}},
			},
		},
	}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, "<p><strong>dangling</strong></p>", chunks[0].HTML)
}

func TestCompileEscapesText(t *testing.T) {
	doc := []content.Block{textBlock(content.StyleNormal, `5 < 7 & "quotes"`)}

	chunks := Compile(doc, nil)
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0].HTML, `5 < 7`)
	assert.Contains(t, chunks[0].HTML, "5 &lt; 7")
}

func TestHighlightDictionary(t *testing.T) {
	dictionary := []content.HighlightEntry{
		{Word: "roguelike", Color: "#ff0055"},
	}

	t.Run("latin word gets nested emphasis outside the colored span", func(t *testing.T) {
		doc := []content.Block{textBlock(content.StyleNormal, "A punishing Roguelike campaign.")}
		chunks := Compile(doc, dictionary)
		require.Len(t, chunks, 1)

		assert.Contains(t, chunks[0].HTML,
			`<em class="loanword"><span style="color:#ff0055">Roguelike</span></em>`)
	})

	t.Run("match is case-insensitive and whole-word", func(t *testing.T) {
		doc := []content.Block{textBlock(content.StyleNormal, "roguelikes are not matched")}
		chunks := Compile(doc, dictionary)
		require.Len(t, chunks, 1)
		assert.NotContains(t, chunks[0].HTML, "<span")
	})

	t.Run("word with digits keeps only the colored span", func(t *testing.T) {
		dict := []content.HighlightEntry{{Word: "mk2", Color: "#00aaff"}}
		doc := []content.Block{textBlock(content.StyleNormal, "the mk2 variant")}
		chunks := Compile(doc, dict)
		require.Len(t, chunks, 1)
		assert.Contains(t, chunks[0].HTML, `<span style="color:#00aaff">mk2</span>`)
		assert.NotContains(t, chunks[0].HTML, "loanword")
	})

	t.Run("empty dictionary leaves text untouched", func(t *testing.T) {
		doc := []content.Block{textBlock(content.StyleNormal, "A punishing roguelike campaign.")}
		chunks := Compile(doc, nil)
		require.Len(t, chunks, 1)
		assert.False(t, strings.Contains(chunks[0].HTML, "span"))
	})
}
