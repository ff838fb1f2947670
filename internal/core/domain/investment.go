package domain

import "encoding/json"

// InvestmentMetadata describes an investment and the material that belongs to it.
// It is written by the preprocessing pipeline as metadata.json and is read-only
// from the core's perspective.
type InvestmentMetadata struct {
	// ID is the stable identifier (also the directory name under the data root).
	ID string `json:"id"`

	// Name is the human-readable investment name.
	Name string `json:"name"`

	// FolderFiles lists the document file names, in preprocessing order.
	FolderFiles []string `json:"folder_files"`

	// Websites lists the website URLs, in preprocessing order.
	Websites []string `json:"websites"`

	// Raw holds the metadata document exactly as it was read, when available.
	// MarshalJSON emits it unchanged so callers see fields the core does not model.
	Raw json.RawMessage `json:"-"`
}

// metadataFields avoids MarshalJSON recursion.
type metadataFields InvestmentMetadata

// MarshalJSON returns the original document when it was loaded from storage,
// otherwise the modelled fields.
func (m InvestmentMetadata) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	return json.Marshal(metadataFields(m))
}

// ChunkSet is the ordered chunk content of one document or website.
// Order matches the source document and is significant: result chunk
// indexes refer to positions in Chunks.
type ChunkSet struct {
	// Key is the storage key the set was loaded under.
	Key string

	// Source is the file name or URL the chunks were extracted from.
	Source string

	// IsWebsite is true for website content.
	IsWebsite bool

	// Chunks holds the text chunks.
	Chunks []string

	// Visual holds OCR text extracted from embedded images (documents only).
	Visual []string

	// Embeddings holds precomputed chunk embeddings, one row per chunk,
	// or nil when preprocessing did not produce them.
	Embeddings [][]float32
}

// IsEmpty reports whether there is no text to summarise or search.
func (c *ChunkSet) IsEmpty() bool {
	return c == nil || len(c.Chunks) == 0
}
