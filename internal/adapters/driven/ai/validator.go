package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that a provider answers before its settings are saved
// or reported by `settings check`. An unset provider always validates.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a validator bounded by the default ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// WithTimeout returns a copy of v whose pings give up after d.
// Non-positive durations keep the current bound.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	out := *v
	if d > 0 {
		out.timeout = d
	}
	return &out
}

// ValidateEmbedding builds the embedding service and pings it. A configured
// precomputed model that differs from the live one is reported but allowed:
// search then encodes chunks on the fly.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(config)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	if err := v.ping(svc.Ping); err != nil {
		return fmt.Errorf("embedding %s (%s): %w", config.Provider, svc.ModelName(), err)
	}
	if config.PrecomputedModel != "" && config.PrecomputedModel != svc.ModelName() {
		logger.Warn("Precomputed embeddings come from %s but %s is configured; they will not be reused",
			config.PrecomputedModel, svc.ModelName())
	}
	return nil
}

// ValidateLLM builds the LLM service and pings it.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, config)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("llm %s (%s): %w", config.Provider, svc.ModelName(), err)
	}
	return nil
}

func (v *ConfigValidator) ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	return fn(ctx)
}
