// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SummaryService memoises summaries, ContextAssembler builds per-investment
// contexts and overviews, RetrievalService ranks chunks by cosine similarity,
// and SettingsService maps the config store onto domain.AppSettings.
package services
