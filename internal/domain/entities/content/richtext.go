package content

// Block is one entry of a rich-text document: either a standard text block
// (style paragraph/heading/quote with inline marks) or a custom embed whose
// payload passes through the compiler untouched.
type Block struct {
	Key      string         `json:"_key,omitempty"`
	Type     string         `json:"_type"`
	Style    string         `json:"style,omitempty"`
	Children []Span         `json:"children,omitempty"`
	MarkDefs []MarkDef      `json:"markDefs,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Standard block type and styles.
const (
	BlockTypeText = "block"

	StyleNormal = "normal"
	StyleH2     = "h2"
	StyleH3     = "h3"
	StyleQuote  = "blockquote"
)

// Embed block types carried opaquely through the compiler.
const (
	EmbedGallery     = "gallery"
	EmbedSlider      = "comparisonSlider"
	EmbedTable       = "table"
	EmbedGameDetails = "gameDetails"
	EmbedVideo       = "video"
)

// IsText reports whether the block is a standard text block.
func (b *Block) IsText() bool {
	return b.Type == BlockTypeText
}

// Span is an inline run of text with its applied marks. A mark is either a
// decorator ("strong", "em") or the key of a MarkDef on the parent block.
type Span struct {
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced by span marks: links and inline color.
type MarkDef struct {
	Key   string `json:"_key"`
	Type  string `json:"_type"`
	Href  string `json:"href,omitempty"`
	Color string `json:"color,omitempty"`
}

// HighlightEntry is one dictionary term for the word-highlighting pass.
type HighlightEntry struct {
	Word  string `json:"word"`
	Color string `json:"color"`
}

// BodyChunk is one entry of a compiled hybrid body: either a precompiled
// HTML run covering one or more adjacent text blocks, or an opaque embed.
type BodyChunk struct {
	Kind    string         `json:"kind"`
	HTML    string         `json:"html,omitempty"`
	Embed   string         `json:"embed,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// BodyChunk kinds.
const (
	ChunkHTML  = "html"
	ChunkEmbed = "embed"
)
