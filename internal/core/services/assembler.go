package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Ensure ContextAssembler implements the interface.
var _ driving.ContextAssembler = (*ContextAssembler)(nil)

// overviewSourcesHint tells the orchestrator how the listed sources can be searched.
const overviewSourcesHint = "_This includes names of files and websites along with their summaries. " +
	"These can be searched using SearchAllDocuments or SearchSpecificDocument tools_"

// ContextAssembler combines metadata, summaries and chunks per investment.
type ContextAssembler struct {
	chunkStore driven.ChunkStore
	summaries  driving.SummaryService
	rules      domain.SectorRules
}

// NewContextAssembler creates a new context assembler using the default sector rules.
func NewContextAssembler(chunkStore driven.ChunkStore, summaries driving.SummaryService) *ContextAssembler {
	return &ContextAssembler{
		chunkStore: chunkStore,
		summaries:  summaries,
		rules:      domain.DefaultSectorRules,
	}
}

// SetSectorRules replaces the sector classification table.
func (a *ContextAssembler) SetSectorRules(rules domain.SectorRules) {
	a.rules = rules
}

// Assemble builds the context for an investment.
func (a *ContextAssembler) Assemble(
	ctx context.Context, investmentID string, includeFullChunks bool,
) (*domain.AssembledContext, error) {
	logger.Section("Context Assembly")
	logger.Debug("Investment: %s, include chunks: %t", investmentID, includeFullChunks)

	meta, err := a.loadMetadata(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	assembled := &domain.AssembledContext{
		Metadata:      *meta,
		Documents:     make([]domain.DocumentContext, 0, len(meta.FolderFiles)),
		Websites:      make([]domain.WebsiteContext, 0, len(meta.Websites)),
		IncludeChunks: includeFullChunks,
	}

	for _, file := range meta.FolderFiles {
		summary, err := a.summaries.GetOrCreateSummary(ctx, investmentID, file, false)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", file, err)
		}
		doc := domain.DocumentContext{File: file, Summary: summary}

		if includeFullChunks {
			set, err := a.chunkStore.LoadDocumentChunks(ctx, investmentID, file)
			if err != nil {
				return nil, fmt.Errorf("assemble %s: %w", file, err)
			}
			if set != nil {
				doc.Chunks = set.Chunks
				doc.VisualChunks = set.Visual
				doc.Embeddings = set.Embeddings
			}
		}
		assembled.Documents = append(assembled.Documents, doc)
	}

	for _, url := range meta.Websites {
		summary, err := a.summaries.GetOrCreateSummary(ctx, investmentID, url, true)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", url, err)
		}
		site := domain.WebsiteContext{URL: url, Summary: summary}

		if includeFullChunks {
			set, err := a.chunkStore.LoadWebsiteChunks(ctx, investmentID, url)
			if err != nil {
				return nil, fmt.Errorf("assemble %s: %w", url, err)
			}
			if set != nil {
				site.Chunks = set.Chunks
				site.Embeddings = set.Embeddings
			}
		}
		assembled.Websites = append(assembled.Websites, site)
	}

	logger.Info("Assembled %s: %d documents, %d websites",
		investmentID, len(assembled.Documents), len(assembled.Websites))
	return assembled, nil
}

// Metadata loads the investment metadata as written by preprocessing.
func (a *ContextAssembler) Metadata(ctx context.Context, investmentID string) (*domain.InvestmentMetadata, error) {
	return a.loadMetadata(ctx, investmentID)
}

// Overview renders the investment summary handed to the orchestrator.
// Summary failures are reported inline per entry so siblings still render.
func (a *ContextAssembler) Overview(ctx context.Context, investmentID string) (string, error) {
	logger.Section("Investment Overview")

	meta, err := a.loadMetadata(ctx, investmentID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Investment ID:** %s\n\n", meta.ID)
	fmt.Fprintf(&b, "**Investment Name:** %s\n\n", meta.Name)
	b.WriteString("**Document Summaries:**\n")
	b.WriteString(overviewSourcesHint + "\n")

	// Sector keywords are matched against real summaries only. Placeholder and
	// error text ("available") would otherwise hit the "ai" keyword.
	var classified strings.Builder
	classified.WriteString(b.String())

	entry := func(name string, isWebsite bool) {
		summary, ok := a.summaryOrReason(ctx, investmentID, name, isWebsite)
		line := fmt.Sprintf("- **%s:** %s\n\n", name, summary)
		b.WriteString(line)
		if ok {
			classified.WriteString(line)
		} else {
			fmt.Fprintf(&classified, "- **%s:**\n\n", name)
		}
	}
	for _, file := range meta.FolderFiles {
		entry(file, false)
	}
	for _, url := range meta.Websites {
		entry(url, true)
	}

	sector := a.DetermineSector(classified.String())
	fmt.Fprintf(&b, "\n**Investment Sector:** %s", sector)

	logger.Info("Overview for %s: sector %s", investmentID, sector)
	return b.String(), nil
}

// summaryOrReason returns the summary, or the reason it is missing with ok unset.
func (a *ContextAssembler) summaryOrReason(ctx context.Context, investmentID, name string, isWebsite bool) (string, bool) {
	summary, err := a.summaries.GetOrCreateSummary(ctx, investmentID, name, isWebsite)
	if err != nil {
		logger.Warn("Summary for %s/%s unavailable: %v", investmentID, name, err)
		return "Summary unavailable: " + err.Error(), false
	}
	return summary, summary != domain.NoContentSummary
}

// DetermineSector classifies text with the configured sector rules.
func (a *ContextAssembler) DetermineSector(text string) domain.Sector {
	return a.rules.Classify(text)
}

func (a *ContextAssembler) loadMetadata(ctx context.Context, investmentID string) (*domain.InvestmentMetadata, error) {
	if err := domain.ValidateInvestmentID(investmentID); err != nil {
		return nil, err
	}
	meta, err := a.chunkStore.LoadMetadata(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("load metadata for %s: %w", investmentID, err)
	}
	return meta, nil
}
