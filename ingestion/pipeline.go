package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/medisearch/medisearch/ai"
	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	// defaultChunkSize keeps embedding/upsert batches well under
	// provider-side payload limits. Chunking never changes final index
	// state, only throughput.
	defaultChunkSize = 100

	defaultMaxRetries = 3
	defaultRetryDelay = 1 * time.Second
)

// Pipeline turns structured hospital rows into embedded index records.
// Chunks are embedded concurrently on a worker pool and upserted chunk by
// chunk; a failing chunk is reported without aborting the others, and
// re-running the same ingestion is safe because upserts are idempotent
// per record ID.
type Pipeline struct {
	records        storage.RecordRepository
	embedder       ai.Embedder
	pool           *ants.Pool
	chunkSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunkSize sets the number of records per embedding/upsert chunk.
// Default is 100.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent chunk embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMaxRetries sets the retry attempt count for embedding calls.
// Default is 3.
func WithMaxRetries(attempts int) Option {
	return func(p *Pipeline) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay for exponential backoff between
// embedding retries. Default is 1s.
func WithRetryDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		p.retryBaseDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(records storage.RecordRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		records:        records,
		embedder:       embedder,
		pool:           pool,
		chunkSize:      defaultChunkSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// RowFailure reports one source row that did not make it into the index.
type RowFailure struct {
	Row    int     // position in the input slice
	Id     core.ID // zero when the row failed before an ID could be derived
	Reason string
}

// Report accounts for every input row exactly once.
type Report struct {
	Inserted int
	Updated  int
	Failed   []RowFailure
}

// pending pairs a built record with its source row position.
type pending struct {
	row    int
	record *core.Record
}

// Ingest builds, embeds, and upserts records for the given rows and
// persists the hospital schema. Per-row failures are collected in the
// report; only storage-level failures that prevent any progress abort
// the run.
func (p *Pipeline) Ingest(ctx context.Context, rows []HospitalRow) (*Report, error) {
	report := &Report{}
	if len(rows) == 0 {
		return report, nil
	}

	// Persist the schema first so upsert validation sees it
	if err := p.records.SaveSchema(ctx, HospitalSchema()); err != nil {
		return nil, err
	}

	valid := make([]pending, 0, len(rows))
	rowOf := make(map[core.ID]int, len(rows)) // first occurrence per ID, for failure attribution
	for i, row := range rows {
		record, err := BuildRecord(row)
		if err != nil {
			report.Failed = append(report.Failed, RowFailure{Row: i, Reason: err.Error()})
			continue
		}
		if _, seen := rowOf[record.Id]; !seen {
			rowOf[record.Id] = i
		}
		valid = append(valid, pending{row: i, record: record})
	}

	chunks := p.chunk(valid)
	p.logger.Info("ingesting rows", "rows", len(rows), "chunks", len(chunks), "chunkSize", p.chunkSize)

	// Embed chunks concurrently
	embedErrs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for ci, chunk := range chunks {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			embedErrs[ci] = p.embedChunk(ctx, chunk)
		})
		if err != nil {
			embedErrs[ci] = err
			wg.Done()
		}
	}
	wg.Wait()

	// Upsert chunk by chunk; a failed chunk is reported, not fatal
	for ci, chunk := range chunks {
		if embedErrs[ci] != nil {
			p.logger.Error("chunk embedding failed", "chunk", ci, "records", len(chunk), "err", embedErrs[ci])
			for _, item := range chunk {
				report.Failed = append(report.Failed, RowFailure{
					Row:    item.row,
					Id:     item.record.Id,
					Reason: embedErrs[ci].Error(),
				})
			}
			continue
		}

		records := make([]*core.Record, len(chunk))
		for i, item := range chunk {
			records[i] = item.record
		}

		outcome, err := p.records.Upsert(ctx, records...)
		if err != nil {
			p.logger.Error("chunk upsert failed", "chunk", ci, "records", len(chunk), "err", err)
			for _, item := range chunk {
				report.Failed = append(report.Failed, RowFailure{
					Row:    item.row,
					Id:     item.record.Id,
					Reason: err.Error(),
				})
			}
			continue
		}

		report.Inserted += len(outcome.Inserted)
		report.Updated += len(outcome.Updated)
		for _, failed := range outcome.Failed {
			report.Failed = append(report.Failed, RowFailure{
				Row:    rowOf[failed.Id],
				Id:     failed.Id,
				Reason: failed.Err.Error(),
			})
		}
	}

	return report, nil
}

// chunk splits pending records into bounded-size chunks.
func (p *Pipeline) chunk(items []pending) [][]pending {
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]pending, 0, (len(items)+p.chunkSize-1)/p.chunkSize)
	for start := 0; start < len(items); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// embedChunk embeds one chunk's texts with retry and assigns unit-normalized
// vectors to the records.
func (p *Pipeline) embedChunk(ctx context.Context, chunk []pending) error {
	texts := make([]string, len(chunk))
	for i, item := range chunk {
		texts[i] = item.record.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = p.embedder.EmbedTexts(ctx, texts)
		return err
	}, p.maxRetries, p.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", p.maxRetries, err)
	}

	if len(vectors) != len(chunk) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunk), len(vectors))
	}

	for i := range chunk {
		chunk[i].record.Vector = core.NormalizeVector(vectors[i])
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
