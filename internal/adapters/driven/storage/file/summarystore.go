package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore keeps summaries as <root>/<id>/<key>_summary.txt.
type SummaryStore struct {
	root string
}

// NewSummaryStore creates a summary store rooted at dataDir.
func NewSummaryStore(dataDir string) *SummaryStore {
	return &SummaryStore{root: dataDir}
}

func (s *SummaryStore) path(investmentID, key string) (string, error) {
	dir, err := investmentDir(s.root, investmentID)
	if err != nil {
		return "", err
	}
	return keyFile(dir, key, SummarySuffix)
}

// Get reads a cached summary.
func (s *SummaryStore) Get(_ context.Context, investmentID, key string) (string, bool, error) {
	path, err := s.path(investmentID, key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading summary: %w", err)
	}
	return string(data), true, nil
}

// Put writes a summary through a temp file and rename.
func (s *SummaryStore) Put(_ context.Context, investmentID, key, summary string) error {
	path, err := s.path(investmentID, key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating investment directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(summary); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing summary: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving summary: %w", err)
	}
	return nil
}

// Delete removes a cached summary.
func (s *SummaryStore) Delete(_ context.Context, investmentID, key string) error {
	path, err := s.path(investmentID, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting summary: %w", err)
	}
	return nil
}
