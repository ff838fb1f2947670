package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore reads preprocessing output from a data directory.
type ChunkStore struct {
	root string
}

// NewChunkStore creates a chunk store rooted at dataDir.
func NewChunkStore(dataDir string) *ChunkStore {
	return &ChunkStore{root: dataDir}
}

// Root returns the data directory.
func (s *ChunkStore) Root() string {
	return s.root
}

// LoadMetadata reads <root>/<id>/metadata.json.
func (s *ChunkStore) LoadMetadata(_ context.Context, investmentID string) (*domain.InvestmentMetadata, error) {
	dir, err := investmentDir(s.root, investmentID)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, MetadataFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: metadata for investment %s", domain.ErrNotFound, investmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta domain.InvestmentMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata %s: %w", path, err)
	}
	if meta.ID == "" {
		meta.ID = investmentID
	}
	meta.Raw = json.RawMessage(data)
	return &meta, nil
}

// LoadDocumentChunks reads <stem>_chunks.json and any text embeddings.
func (s *ChunkStore) LoadDocumentChunks(_ context.Context, investmentID, fileName string) (*domain.ChunkSet, error) {
	dir, err := investmentDir(s.root, investmentID)
	if err != nil {
		return nil, err
	}
	stem := domain.DocumentStem(fileName)

	var doc domain.DocumentChunks
	found, err := readChunkFile(dir, stem, &doc)
	if err != nil || !found {
		return nil, err
	}

	doc.TextEmbeddings = s.embeddings(dir, stem, TextEmbeddingsSuffix, len(doc.TextChunks))
	doc.VisualEmbeddings = s.embeddings(dir, stem, VisualEmbeddingsSuffix, len(doc.VisualChunks))
	return doc.ChunkSet(fileName), nil
}

// LoadWebsiteChunks reads <sitekey>_chunks.json and any embeddings.
func (s *ChunkStore) LoadWebsiteChunks(_ context.Context, investmentID, url string) (*domain.ChunkSet, error) {
	dir, err := investmentDir(s.root, investmentID)
	if err != nil {
		return nil, err
	}
	key := domain.WebsiteKey(url)

	var site domain.WebsiteChunks
	found, err := readChunkFile(dir, key, &site)
	if err != nil || !found {
		return nil, err
	}

	site.Embeddings = s.embeddings(dir, key, WebsiteEmbeddingSuffix, len(site.Chunks))
	return site.ChunkSet(url), nil
}

// readChunkFile decodes <key>_chunks.json into v. A missing file is logged
// and reported as not found.
func readChunkFile(dir, key string, v any) (bool, error) {
	path, err := keyFile(dir, key, ChunksSuffix)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("chunk file not found: %s", path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading chunk file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding chunk file %s: %w", path, err)
	}
	return true, nil
}

// embeddings loads an optional .npy file. Unreadable or misaligned files
// are ignored so search falls back to encoding the chunks.
func (s *ChunkStore) embeddings(dir, key, suffix string, chunks int) [][]float32 {
	path, err := keyFile(dir, key, suffix)
	if err != nil {
		return nil
	}
	rows, err := loadEmbeddings(path)
	if err != nil {
		logger.Warn("ignoring embeddings: %v", err)
		return nil
	}
	if rows != nil && len(rows) != chunks {
		logger.Warn("ignoring embeddings %s: %d rows for %d chunks", path, len(rows), chunks)
		return nil
	}
	return rows
}
