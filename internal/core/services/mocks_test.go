package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
// Summarise wraps content as "S[content]" so passes are visible in output.
type mockLLMService struct {
	mu         sync.Mutex
	calls      map[string]int
	maxLengths map[string][]int
	failOn     string
	err        error
}

func newMockLLM() *mockLLMService {
	return &mockLLMService{
		calls:      make(map[string]int),
		maxLengths: make(map[string][]int),
	}
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return "G[" + prompt + "]", nil
}

func (m *mockLLMService) Summarise(_ context.Context, prompt, content string, maxLength int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[prompt]++
	m.maxLengths[prompt] = append(m.maxLengths[prompt], maxLength)
	if m.err != nil && (m.failOn == "" || m.failOn == prompt) {
		return "", m.err
	}
	return "S[" + content + "]", nil
}

// blockingLLM holds every Summarise call until release is closed or the
// call's context ends.
type blockingLLM struct {
	*mockLLMService
	started chan struct{}
	release chan struct{}
	aborted chan struct{}

	startOnce sync.Once
	abortOnce sync.Once
}

func newBlockingLLM(inner *mockLLMService) *blockingLLM {
	return &blockingLLM{
		mockLLMService: inner,
		started:        make(chan struct{}),
		release:        make(chan struct{}),
		aborted:        make(chan struct{}),
	}
}

func (b *blockingLLM) Summarise(ctx context.Context, prompt, content string, maxLength int) (string, error) {
	b.startOnce.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return b.mockLLMService.Summarise(ctx, prompt, content, maxLength)
	case <-ctx.Done():
		b.abortOnce.Do(func() { close(b.aborted) })
		return "", ctx.Err()
	}
}

func (m *mockLLMService) callCount(prompt string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[prompt]
}

func (m *mockLLMService) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in vectors get that vector; others get fallback.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	embedErr   error
	batchErr   error
	embedCalls int
	batchTexts []string
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchTexts = append(m.batchTexts, texts...)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbeddingService) encoded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.batchTexts...)
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockEmbeddingCache implements driven.EmbeddingCache for testing.
type mockEmbeddingCache struct {
	mu      sync.Mutex
	vectors map[string][]float32
	getErr  error
	putErr  error
}

func newMockEmbeddingCache() *mockEmbeddingCache {
	return &mockEmbeddingCache{vectors: make(map[string][]float32)}
}

func (m *mockEmbeddingCache) GetMany(_ context.Context, model string, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectors[model+"|"+text]
	}
	return out, nil
}

func (m *mockEmbeddingCache) PutMany(_ context.Context, model string, texts []string, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	for i, text := range texts {
		m.vectors[model+"|"+text] = vectors[i]
	}
	return nil
}

func (m *mockEmbeddingCache) Close() error { return nil }

// mockSummaryService implements driving.SummaryService for testing.
type mockSummaryService struct {
	mu     sync.Mutex
	errors map[string]error
	fixed  map[string]string
	calls  []string
}

func (m *mockSummaryService) GetOrCreateSummary(_ context.Context, _, name string, isWebsite bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if err := m.errors[name]; err != nil {
		return "", err
	}
	if summary, ok := m.fixed[name]; ok {
		return summary, nil
	}
	if isWebsite {
		return "site summary of " + name, nil
	}
	return "summary of " + name, nil
}

func (m *mockSummaryService) Invalidate(_ context.Context, _, _ string, _ bool) error {
	return nil
}

// failingChunkStore implements driven.ChunkStore, failing chunk loads.
type failingChunkStore struct {
	driven.ChunkStore
	err error
}

func (f *failingChunkStore) LoadDocumentChunks(_ context.Context, _, _ string) (*domain.ChunkSet, error) {
	return nil, f.err
}

func (f *failingChunkStore) LoadWebsiteChunks(_ context.Context, _, _ string) (*domain.ChunkSet, error) {
	return nil, f.err
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	lastLLM      *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	m.lastLLM = cfg
	return m.llmErr
}

// envMap adapts a map to EnvLookup.
func envMap(vars map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

var errBackend = errors.New("backend down")

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

var (
	_ driven.LLMService        = (*mockLLMService)(nil)
	_ driven.EmbeddingService  = (*mockEmbeddingService)(nil)
	_ driven.EmbeddingCache    = (*mockEmbeddingCache)(nil)
	_ driving.SummaryService   = (*mockSummaryService)(nil)
	_ driven.AIConfigValidator = (*mockAIValidator)(nil)
)
