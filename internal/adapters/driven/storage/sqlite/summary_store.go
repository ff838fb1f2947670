package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// summaryStore implements driven.SummaryStore.
type summaryStore struct {
	store *Store
}

var _ driven.SummaryStore = (*summaryStore)(nil)

// Get returns a cached summary.
func (s *summaryStore) Get(ctx context.Context, investmentID, key string) (string, bool, error) {
	var summary string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT summary FROM summaries WHERE investment_id = ? AND summary_key = ?
	`, investmentID, key).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying summary: %w", err)
	}
	return summary, true, nil
}

// Put stores or replaces a summary.
func (s *summaryStore) Put(ctx context.Context, investmentID, key, summary string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO summaries (investment_id, summary_key, summary)
		VALUES (?, ?, ?)
		ON CONFLICT(investment_id, summary_key) DO UPDATE SET
			summary = excluded.summary,
			updated_at = CURRENT_TIMESTAMP
	`, investmentID, key, summary)
	if err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	return nil
}

// Delete removes a summary.
func (s *summaryStore) Delete(ctx context.Context, investmentID, key string) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM summaries WHERE investment_id = ? AND summary_key = ?
	`, investmentID, key)
	if err != nil {
		return fmt.Errorf("deleting summary: %w", err)
	}
	return nil
}
