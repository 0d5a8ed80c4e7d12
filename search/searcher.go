package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medisearch/medisearch/ai"
	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/storage"
)

// DefaultMaxHits is the default ceiling on requested result counts.
const DefaultMaxHits = 50

// Searcher answers free-text queries against the index: it embeds the query,
// delegates to the store's filtered similarity search, and returns the
// store's ranking unchanged.
type Searcher struct {
	records  storage.RecordRepository
	embedder ai.Embedder
	maxHits  int
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithMaxHits sets the ceiling on requested result counts.
// Default is DefaultMaxHits.
func WithMaxHits(max int) Option {
	return func(s *Searcher) error {
		if max < 1 {
			return fmt.Errorf("max hits must be positive, got %d", max)
		}
		s.maxHits = max
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(records storage.RecordRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		records:  records,
		embedder: embedder,
		maxHits:  DefaultMaxHits,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Schema returns the metadata schema persisted at ingestion time.
// Filters must be constructed against it (core.NewFilter) so invalid
// predicates fail before any query runs.
func (s *Searcher) Schema(ctx context.Context) (core.Schema, error) {
	return s.records.LoadSchema(ctx)
}

// Query searches for records similar to the query text, restricted to those
// matching filter when it is non-nil.
// Returns up to maxHits results ranked by descending cosine similarity.
func (s *Searcher) Query(ctx context.Context, text string, filter *core.Filter, maxHits int) ([]*core.SearchResult, error) {
	return s.QueryWithMonitor(ctx, text, filter, maxHits, nil)
}

// QueryWithMonitor is Query with stage callbacks for observability.
func (s *Searcher) QueryWithMonitor(ctx context.Context, text string, filter *core.Filter, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits < 1 || maxHits > s.maxHits {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidLimit, maxHits, s.maxHits)
	}

	monitor.Start(text)

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", text, "err", err)
		return nil, err
	}
	embedding = core.NormalizeVector(embedding)
	monitor.AfterEmbedding(len(embedding))

	results, err := s.records.FindSimilar(ctx, embedding, filter, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar records", "err", err)
		return nil, err
	}

	monitor.Finish(results)
	return results, nil
}
