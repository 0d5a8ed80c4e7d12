package storage

import (
	"context"

	"github.com/medisearch/medisearch/core"
)

// FailedRecord reports a record rejected during an upsert batch.
type FailedRecord struct {
	Id  core.ID
	Err error
}

// UpsertOutcome accounts for every record in an upsert batch exactly once:
// inserted, updated, or failed.
type UpsertOutcome struct {
	Inserted []core.ID
	Updated  []core.ID
	Failed   []FailedRecord
}

// RecordRepository provides durable storage for records with filtered
// vector-similarity search. Implementations must be thread-safe: searches
// may run concurrently, writes are serialized, and no reader ever observes
// a partially written record.
type RecordRepository interface {
	// Upsert inserts or replaces records by ID. Records that fail
	// validation are reported in the outcome without aborting the rest of
	// the batch; valid records are written atomically. Re-upserting the
	// same records is safe: upsert is idempotent per ID, and a record's
	// insertion sequence survives overwrites.
	Upsert(ctx context.Context, records ...*core.Record) (*UpsertOutcome, error)

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// Count returns the number of records in the index.
	Count(ctx context.Context) (int, error)

	// FindSimilar returns at most limit records whose metadata satisfies
	// filter (all records when filter is nil), ranked by descending cosine
	// similarity between vector and each record's vector. Ties are broken
	// by ascending insertion sequence so identical searches against an
	// unchanged index return identical ordered results. An empty index
	// yields an empty slice, never an error.
	FindSimilar(ctx context.Context, vector []float32, filter *core.Filter, limit int) ([]*core.SearchResult, error)

	// SaveSchema persists the metadata schema declared at ingestion time.
	SaveSchema(ctx context.Context, schema core.Schema) error

	// LoadSchema retrieves the persisted metadata schema.
	// Returns ErrNotFound if no schema has been saved.
	LoadSchema(ctx context.Context) (core.Schema, error)

	// Close closes the repository and releases resources.
	Close() error
}
