package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// SummaryConfig holds summarisation limits and pacing.
type SummaryConfig struct {
	// ChunkMaxLength bounds each first-pass chunk summary, in characters.
	ChunkMaxLength int

	// FinalMaxLength bounds the second-pass summary, in characters.
	FinalMaxLength int

	// RequestsPerSecond paces LLM calls. Zero means unlimited.
	RequestsPerSecond float64
}

// SummaryService memoises two-pass hierarchical summaries.
// Concurrent requests for the same key in one process share a single generation.
// The shared generation outlives any one caller and is cancelled only when
// every waiting caller has gone.
type SummaryService struct {
	chunkStore driven.ChunkStore
	store      driven.SummaryStore
	llm        driven.LLMService
	limiter    *rate.Limiter
	group      singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight

	chunkMaxLength int
	finalMaxLength int
}

// NewSummaryService creates a new summary service.
// The llm parameter is optional (can be nil): cached summaries are still served.
func NewSummaryService(
	chunkStore driven.ChunkStore,
	store driven.SummaryStore,
	llm driven.LLMService,
	cfg SummaryConfig,
) *SummaryService {
	if cfg.ChunkMaxLength <= 0 {
		cfg.ChunkMaxLength = domain.DefaultChunkSummaryLength
	}
	if cfg.FinalMaxLength <= 0 {
		cfg.FinalMaxLength = domain.DefaultFinalSummaryLength
	}

	s := &SummaryService{
		chunkStore:     chunkStore,
		store:          store,
		llm:            llm,
		chunkMaxLength: cfg.ChunkMaxLength,
		finalMaxLength: cfg.FinalMaxLength,
		flights:        make(map[string]*flight),
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s
}

// GetOrCreateSummary returns the cached summary, generating it on a miss.
func (s *SummaryService) GetOrCreateSummary(
	ctx context.Context, investmentID, name string, isWebsite bool,
) (string, error) {
	if err := domain.ValidateInvestmentID(investmentID); err != nil {
		return "", err
	}
	key := domain.SummaryKey(name, isWebsite)

	if summary, ok, err := s.store.Get(ctx, investmentID, key); err != nil {
		return "", fmt.Errorf("read summary %s: %w", key, err)
	} else if ok {
		logger.Debug("Summary cache hit: %s/%s", investmentID, key)
		return summary, nil
	}

	flightKey := investmentID + "/" + key
	f := s.join(ctx, flightKey)
	defer s.leave(flightKey, f)

	ch := s.group.DoChan(flightKey, func() (any, error) {
		defer s.land(flightKey, f)
		return s.generate(f.ctx, investmentID, name, key, isWebsite)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			logger.Debug("Summary generation shared: %s/%s", investmentID, key)
		}
		return res.Val.(string), nil
	}
}

// flight is the context of one shared generation and the callers waiting on it.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// join registers a caller on the flight for key, starting one detached from
// the caller's cancellation if none is running.
func (s *SummaryService) join(ctx context.Context, key string) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops a caller; the last one out cancels the generation.
func (s *SummaryService) leave(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

// land unregisters a finished flight so later callers start a new one.
func (s *SummaryService) land(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

// generate runs under the singleflight key.
func (s *SummaryService) generate(
	ctx context.Context, investmentID, name, key string, isWebsite bool,
) (string, error) {
	// A concurrent caller may have finished between the miss and acquiring the key.
	if summary, ok, err := s.store.Get(ctx, investmentID, key); err == nil && ok {
		return summary, nil
	}

	set, err := s.loadChunks(ctx, investmentID, name, isWebsite)
	if err != nil {
		return "", err
	}
	if set.IsEmpty() {
		logger.Warn("No chunks for %s/%s; summary not cached", investmentID, name)
		return domain.NoContentSummary, nil
	}

	if s.llm == nil {
		return "", fmt.Errorf("summarise %s: %w", name, domain.ErrLLMUnavailable)
	}

	logger.Section("Summarisation")
	logger.Info("Summarising %s (%d chunks) with %s", name, len(set.Chunks), s.llm.ModelName())

	summary, err := s.summarise(ctx, name, set.Chunks)
	if err != nil {
		return "", err
	}

	if err := s.store.Put(ctx, investmentID, key, summary); err != nil {
		return "", fmt.Errorf("store summary %s: %w", key, err)
	}
	return summary, nil
}

// summarise reduces chunks to one summary in two passes:
// each chunk is summarised on its own, then the joined results are condensed.
func (s *SummaryService) summarise(ctx context.Context, name string, chunks []string) (string, error) {
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part, err := s.call(ctx, driven.PromptChunkSummary, chunk, s.chunkMaxLength)
		if err != nil {
			return "", fmt.Errorf("%w: %s chunk %d: %w", domain.ErrSummarisation, name, i, err)
		}
		logger.Debug("Chunk %d/%d of %s: %d chars", i+1, len(chunks), name, len(part))
		parts = append(parts, part)
	}

	final, err := s.call(ctx, driven.PromptFinalSummary, strings.Join(parts, " "), s.finalMaxLength)
	if err != nil {
		return "", fmt.Errorf("%w: %s final pass: %w", domain.ErrSummarisation, name, err)
	}
	return final, nil
}

func (s *SummaryService) call(ctx context.Context, prompt, content string, maxLength int) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return s.llm.Summarise(ctx, prompt, content, maxLength)
}

func (s *SummaryService) loadChunks(
	ctx context.Context, investmentID, name string, isWebsite bool,
) (*domain.ChunkSet, error) {
	var (
		set *domain.ChunkSet
		err error
	)
	if isWebsite {
		set, err = s.chunkStore.LoadWebsiteChunks(ctx, investmentID, name)
	} else {
		set, err = s.chunkStore.LoadDocumentChunks(ctx, investmentID, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load chunks for %s: %w", name, err)
	}
	return set, nil
}

// Invalidate drops a cached summary.
func (s *SummaryService) Invalidate(ctx context.Context, investmentID, name string, isWebsite bool) error {
	if err := domain.ValidateInvestmentID(investmentID); err != nil {
		return err
	}
	key := domain.SummaryKey(name, isWebsite)
	if err := s.store.Delete(ctx, investmentID, key); err != nil {
		return fmt.Errorf("delete summary %s: %w", key, err)
	}
	logger.Info("Invalidated summary %s/%s", investmentID, key)
	return nil
}
