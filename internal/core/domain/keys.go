package domain

import (
	"fmt"
	"path"
	"strings"
)

// WebsiteKey derives the file-safe storage key for a website URL.
// The scheme prefix is removed and path separators become underscores,
// so "https://example.com/about" maps to "example.com_about".
//
// Every component that turns a URL into a storage key must use this function;
// a divergent derivation makes lookups miss silently.
func WebsiteKey(url string) string {
	key := strings.ReplaceAll(url, "https://", "")
	key = strings.ReplaceAll(key, "http://", "")
	return strings.ReplaceAll(key, "/", "_")
}

// DocumentStem returns a document file name without its final extension.
// Chunk and embedding files for documents are keyed by the stem.
func DocumentStem(fileName string) string {
	ext := path.Ext(fileName)
	if ext == fileName {
		// A leading dot is not an extension (".env" stays ".env").
		return fileName
	}
	return strings.TrimSuffix(fileName, ext)
}

// SummaryKey returns the key a summary is cached under.
// Documents use their full file name and websites their WebsiteKey.
func SummaryKey(name string, isWebsite bool) string {
	if isWebsite {
		return WebsiteKey(name)
	}
	return name
}

// ValidateInvestmentID rejects identifiers that cannot safely name a directory.
func ValidateInvestmentID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: investment id is required", ErrInvalidInput)
	case id == "." || id == "..":
		return fmt.Errorf("%w: investment id %q is not allowed", ErrInvalidInput, id)
	case strings.ContainsAny(id, "/\\\x00"):
		return fmt.Errorf("%w: investment id %q contains a path separator", ErrInvalidInput, id)
	}
	return nil
}
