package domain

// NoContentSummary is returned in place of a summary when a document or website
// has no chunk content. It is shown to callers as-is and never cached.
const NoContentSummary = "No content available for summarization."

// DocumentContext is one document inside an AssembledContext.
type DocumentContext struct {
	// File is the document file name as listed in the metadata.
	File string `json:"file"`

	// Summary is the cached or freshly generated summary.
	Summary string `json:"summary"`

	// Chunks holds the ordered text chunks when full chunks were requested
	// and the chunk file exists. Nil otherwise.
	Chunks []string `json:"chunks,omitempty"`

	// VisualChunks holds OCR chunks when full chunks were requested.
	VisualChunks []string `json:"visual_chunks,omitempty"`

	// Embeddings holds precomputed chunk embeddings aligned with Chunks.
	Embeddings [][]float32 `json:"-"`
}

// WebsiteContext is one website inside an AssembledContext.
type WebsiteContext struct {
	// URL is the website URL as listed in the metadata.
	URL string `json:"url"`

	// Summary is the cached or freshly generated summary.
	Summary string `json:"summary"`

	// Chunks holds the ordered text chunks when full chunks were requested
	// and the chunk file exists. Nil otherwise.
	Chunks []string `json:"chunks,omitempty"`

	// Embeddings holds precomputed chunk embeddings aligned with Chunks.
	Embeddings [][]float32 `json:"-"`
}

// AssembledContext is the in-memory view of one investment built for a single call.
// It is never persisted.
type AssembledContext struct {
	Metadata  InvestmentMetadata `json:"metadata"`
	Documents []DocumentContext  `json:"documents"`
	Websites  []WebsiteContext   `json:"websites"`

	// IncludeChunks records whether full chunks were requested. An entry with
	// nil Chunks in a context built with IncludeChunks had no chunk file.
	IncludeChunks bool `json:"include_chunks"`
}

// ContextSource is a document or website entry flattened for retrieval.
type ContextSource struct {
	// Name is the file name or URL.
	Name string

	// IsWebsite is true for website entries.
	IsWebsite bool

	// Chunks and Embeddings mirror the originating entry.
	Chunks     []string
	Embeddings [][]float32
}

// Sources lists documents then websites, each in metadata order.
func (c *AssembledContext) Sources() []ContextSource {
	if c == nil {
		return nil
	}

	sources := make([]ContextSource, 0, len(c.Documents)+len(c.Websites))
	for i := range c.Documents {
		sources = append(sources, ContextSource{
			Name:       c.Documents[i].File,
			Chunks:     c.Documents[i].Chunks,
			Embeddings: c.Documents[i].Embeddings,
		})
	}
	for i := range c.Websites {
		sources = append(sources, ContextSource{
			Name:       c.Websites[i].URL,
			IsWebsite:  true,
			Chunks:     c.Websites[i].Chunks,
			Embeddings: c.Websites[i].Embeddings,
		})
	}
	return sources
}
