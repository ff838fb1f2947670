package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_NothingToValidate(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(nil))
	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Model: "m"}))
	assert.NoError(t, validator.ValidateLLM(nil))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Model: "m"}))
}

func TestConfigValidator_PingsProvider(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL}))
	assert.ErrorContains(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: down.URL}), "status 503")
	assert.ErrorContains(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: down.URL}), "status 503")
}

func TestConfigValidator_ErrorNamesProviderAndModel(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, Model: "mxbai-embed-large", BaseURL: down.URL,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding ollama (mxbai-embed-large)")

	err = validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3", BaseURL: down.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm ollama (llama3)")
}

func TestConfigValidator_PrecomputedModelMismatchStillValidates(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider:         domain.AIProviderOllama,
		Model:            "nomic-embed-text",
		BaseURL:          up.URL,
		PrecomputedModel: "all-MiniLM-L6-v2",
	})

	assert.NoError(t, err)
}

func TestConfigValidator_WithTimeout(t *testing.T) {
	hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hung.Close()

	validator := NewConfigValidator().WithTimeout(50 * time.Millisecond)
	assert.Equal(t, pingTimeout, NewConfigValidator().WithTimeout(0).timeout)

	start := time.Now()
	err := validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: hung.URL})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	start = time.Now()
	err = validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: hung.URL})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
