package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// maxLookupParams keeps IN clauses under SQLite's bound-parameter limit.
const maxLookupParams = 500

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetMany returns cached vectors aligned with texts; misses are nil.
func (c *embeddingCache) GetMany(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	positions := make(map[string][]int, len(texts))
	hashes := make([]string, 0, len(texts))
	for i, text := range texts {
		h := textHash(text)
		if _, seen := positions[h]; !seen {
			hashes = append(hashes, h)
		}
		positions[h] = append(positions[h], i)
	}

	for start := 0; start < len(hashes); start += maxLookupParams {
		end := min(start+maxLookupParams, len(hashes))
		batch := hashes[start:end]

		args := make([]any, 0, len(batch)+1)
		args = append(args, model)
		for _, h := range batch {
			args = append(args, h)
		}
		query := `SELECT text_hash, vector FROM embeddings WHERE model = ? AND text_hash IN (?` +
			strings.Repeat(",?", len(batch)-1) + `)`

		rows, err := c.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("querying embeddings: %w", err)
		}
		for rows.Next() {
			var (
				h    string
				blob []byte
			)
			if err := rows.Scan(&h, &blob); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning embedding: %w", err)
			}
			vec := bytesToFloat32Slice(blob)
			for _, i := range positions[h] {
				out[i] = vec
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating embeddings: %w", err)
		}
		rows.Close()
	}

	return out, nil
}

// PutMany stores vectors for texts in one transaction.
func (c *embeddingCache) PutMany(ctx context.Context, model string, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("got %d texts and %d vectors", len(texts), len(vectors))
	}
	if len(texts) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (model, text_hash, dimensions, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET
			dimensions = excluded.dimensions,
			vector = excluded.vector
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, text := range texts {
		if len(vectors[i]) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, model, textHash(text), len(vectors[i]), float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("inserting embedding: %w", err)
		}
	}

	return tx.Commit()
}

// Close is a no-op; the owning Store closes the connection.
func (c *embeddingCache) Close() error {
	return nil
}
