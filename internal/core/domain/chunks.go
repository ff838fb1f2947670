package domain

// DocumentChunks is the persisted chunk file for one document
// (<stem>_chunks.json), as written by preprocessing.
type DocumentChunks struct {
	Name             string   `json:"name"`
	TextChunks       []string `json:"text_chunks"`
	VisualChunks     []string `json:"visual_chunks"`
	TextChunkCount   int      `json:"text_chunk_count"`
	VisualChunkCount int      `json:"visual_chunk_count"`

	// TextEmbeddings and VisualEmbeddings are loaded from sibling .npy files.
	TextEmbeddings   [][]float32 `json:"-"`
	VisualEmbeddings [][]float32 `json:"-"`
}

// ChunkSet converts the document file into the storage-agnostic view.
func (d *DocumentChunks) ChunkSet(fileName string) *ChunkSet {
	return &ChunkSet{
		Key:        DocumentStem(fileName),
		Source:     fileName,
		Chunks:     d.TextChunks,
		Visual:     d.VisualChunks,
		Embeddings: alignedEmbeddings(d.TextEmbeddings, len(d.TextChunks)),
	}
}

// WebsiteChunks is the persisted chunk file for one website
// (<sitekey>_chunks.json), as written by preprocessing.
type WebsiteChunks struct {
	URL        string   `json:"url"`
	Chunks     []string `json:"chunks"`
	ChunkCount int      `json:"chunk_count"`

	// Embeddings is loaded from a sibling .npy file.
	Embeddings [][]float32 `json:"-"`
}

// ChunkSet converts the website file into the storage-agnostic view.
func (w *WebsiteChunks) ChunkSet(url string) *ChunkSet {
	return &ChunkSet{
		Key:        WebsiteKey(url),
		Source:     url,
		IsWebsite:  true,
		Chunks:     w.Chunks,
		Embeddings: alignedEmbeddings(w.Embeddings, len(w.Chunks)),
	}
}

// alignedEmbeddings drops embeddings whose row count does not match the chunks.
func alignedEmbeddings(rows [][]float32, chunks int) [][]float32 {
	if len(rows) == 0 || len(rows) != chunks {
		return nil
	}
	return rows
}
