// Package compiler converts structured rich-text documents into hybrid
// bodies: alternating precompiled HTML runs and opaque embed descriptors.
package compiler

import (
	"html"
	"strings"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// Compile renders a rich-text document into a mixed sequence of HTML runs
// and opaque embeds. Consecutive standard blocks concatenate into a single
// run; a custom embed flushes the run and passes through untouched, so the
// output stays short (runs + embeds) rather than one entry per block.
// Malformed blocks and mark references degrade to "skip", never to failure.
func Compile(doc []content.Block, dictionary []content.HighlightEntry) []content.BodyChunk {
	chunks := make([]content.BodyChunk, 0, len(doc))
	if len(doc) == 0 {
		return chunks
	}

	highlighter := newHighlighter(dictionary)
	anchors := newAnchorSet()

	var run strings.Builder
	flushRun := func() {
		if run.Len() > 0 {
			chunks = append(chunks, content.BodyChunk{Kind: content.ChunkHTML, HTML: run.String()})
			run.Reset()
		}
	}

	for i := range doc {
		block := &doc[i]
		if block.IsText() {
			run.WriteString(renderTextBlock(block, highlighter, anchors))
			continue
		}
		flushRun()
		chunks = append(chunks, content.BodyChunk{
			Kind:    content.ChunkEmbed,
			Embed:   block.Type,
			Payload: block.Payload,
		})
	}
	flushRun()

	return chunks
}

// renderTextBlock renders one standard block into its HTML element.
func renderTextBlock(block *content.Block, hl *highlighter, anchors *anchorSet) string {
	var sb strings.Builder

	switch block.Style {
	case content.StyleH2, content.StyleH3:
		tag := "h2"
		if block.Style == content.StyleH3 {
			tag = "h3"
		}
		id := anchors.idFor(flattenText(block))
		sb.WriteString(`<`)
		sb.WriteString(tag)
		sb.WriteString(` id="`)
		sb.WriteString(html.EscapeString(id))
		sb.WriteString(`">`)
		renderSpans(&sb, block, hl)
		sb.WriteString(`</`)
		sb.WriteString(tag)
		sb.WriteString(`>`)
	case content.StyleQuote:
		sb.WriteString(`<blockquote>`)
		renderSpans(&sb, block, hl)
		sb.WriteString(`</blockquote>`)
	default:
		sb.WriteString(`<p>`)
		renderSpans(&sb, block, hl)
		sb.WriteString(`</p>`)
	}

	return sb.String()
}

// renderSpans renders the block's inline children with their marks applied
// in original nesting order (the first listed mark is the outermost wrapper).
func renderSpans(sb *strings.Builder, block *content.Block, hl *highlighter) {
	for _, span := range block.Children {
		text := hl.apply(html.EscapeString(span.Text))

		for i := len(span.Marks) - 1; i >= 0; i-- {
			wrapped, ok := applyMark(text, span.Marks[i], block.MarkDefs)
			if !ok {
				continue // Skip malformed mark references rather than failing the document
			}
			text = wrapped
		}

		sb.WriteString(text)
	}
}

// applyMark wraps text in the markup for one mark. Returns false when the
// mark references a definition that does not exist on the block.
func applyMark(text, mark string, defs []content.MarkDef) (string, bool) {
	switch mark {
	case "strong":
		return `<strong>` + text + `</strong>`, true
	case "em":
		return `<em>` + text + `</em>`, true
	}

	for _, def := range defs {
		if def.Key != mark {
			continue
		}
		switch def.Type {
		case "link":
			return `<a href="` + html.EscapeString(def.Href) + `">` + text + `</a>`, true
		case "color":
			return `<span style="color:` + html.EscapeString(def.Color) + `">` + text + `</span>`, true
		default:
			return text, false
		}
	}
	return text, false
}

// flattenText joins a block's raw span text, used for anchor derivation.
func flattenText(block *content.Block) string {
	var sb strings.Builder
	for _, span := range block.Children {
		sb.WriteString(span.Text)
	}
	return sb.String()
}
