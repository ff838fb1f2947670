package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrConfigInvalid,
		ErrLLMUnavailable,
		ErrEmbeddingUnavailable,
		ErrSummarisation,
	}

	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, all[i], all[j])
		}
	}
}

func TestErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load metadata for %q: %w", "42", ErrNotFound)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "not found")
}
