package file

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// File name suffixes written by preprocessing.
const (
	MetadataFileName       = "metadata.json"
	ChunksSuffix           = "_chunks.json"
	TextEmbeddingsSuffix   = "_text_embeddings.npy"
	VisualEmbeddingsSuffix = "_visual_embeddings.npy"
	WebsiteEmbeddingSuffix = "_embeddings.npy"
	SummarySuffix          = "_summary.txt"
)

// investmentDir returns <root>/<id> after validating the ID.
func investmentDir(root, investmentID string) (string, error) {
	if err := domain.ValidateInvestmentID(investmentID); err != nil {
		return "", err
	}
	return filepath.Join(root, investmentID), nil
}

// keyFile joins a storage key and suffix inside dir.
// Keys must not escape the investment directory.
func keyFile(dir, key, suffix string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\\x00") || key == ".." {
		return "", fmt.Errorf("%w: invalid storage key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(dir, key+suffix), nil
}
