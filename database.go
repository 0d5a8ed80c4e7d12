// Copyright 2026 Medisearch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package medisearch

import (
	"log/slog"

	"github.com/medisearch/medisearch/ai"
	"github.com/medisearch/medisearch/ai/openai"
	"github.com/medisearch/medisearch/ingestion"
	"github.com/medisearch/medisearch/search"
	"github.com/medisearch/medisearch/storage"
	"github.com/medisearch/medisearch/storage/badger"
)

// Database wires the index store and the embedding provider into one
// handle. The store lives in a single configured directory and survives
// process restarts; the embedder is constructed once and shared across
// all pipelines created from the handle.
type Database struct {
	backend  *badger.Backend
	records  storage.RecordRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithEmbedder injects a pre-built embedder instead of constructing the
// OpenAI-compatible one. Used by tests and alternative embedding backends.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory opens the index store without durable files.
// All state is lost on Close; intended for tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) the index at filePath and constructs the
// embedding provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create record repository
	records, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedder unless one was injected
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			records.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		records:  records,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Close releases the embedder, the repository, and the backing store.
func (db *Database) Close() error {
	if err := db.embedder.Close(); err != nil {
		db.logger.Error("error closing embedder", "err", err)
	}

	if err := db.records.Close(); err != nil {
		db.logger.Error("error closing record repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// RecordRepository returns the underlying index store.
func (db *Database) RecordRepository() storage.RecordRepository {
	return db.records
}

// NewIngestionPipeline creates an ingestion pipeline bound to this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.records, db.embedder, opts...)
}

// NewSearcher creates a searcher bound to this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.records, db.embedder, opts...)
}
