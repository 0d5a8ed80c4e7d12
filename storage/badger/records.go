package badger

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
	seq     *badger.Sequence

	// Upserts are serialized; searches run concurrently on snapshots.
	writeMu sync.Mutex
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (*RecordRepository, error) {
	seq, err := backend.GetSequence(recordSeqName)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the insertion sequence.
func (r *RecordRepository) Close() error {
	return r.seq.Release()
}

// Upsert inserts or replaces records by ID.
// Validation failures are reported per record without aborting the batch;
// all valid records commit in one transaction, so a record's vector and
// metadata become visible together.
func (r *RecordRepository) Upsert(ctx context.Context, records ...*core.Record) (*storage.UpsertOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	outcome := &storage.UpsertOutcome{}

	schema, err := r.LoadSchema(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	valid := make([]*core.Record, 0, len(records))
	for _, record := range records {
		if err := r.validate(record, schema); err != nil {
			var id core.ID
			if record != nil {
				id = record.Id
			}
			outcome.Failed = append(outcome.Failed, storage.FailedRecord{Id: id, Err: err})
			continue
		}
		valid = append(valid, record)
	}

	if len(valid) == 0 {
		return outcome, nil
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range valid {
			key := makeRecordKey(record.Id)

			// Read the previous version to preserve its insertion sequence
			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}

			if old == nil {
				seq, err := r.nextSeq()
				if err != nil {
					return err
				}
				record.Seq = seq
				record.InsertedAt = now
				outcome.Inserted = append(outcome.Inserted, record.Id)
			} else {
				record.Seq = old.Seq
				record.InsertedAt = old.InsertedAt
				outcome.Updated = append(outcome.Updated, record.Id)
			}
			record.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// validate applies record validation plus schema typing when a schema has
// been declared.
func (r *RecordRepository) validate(record *core.Record, schema core.Schema) error {
	if err := core.ValidateRecord(record); err != nil {
		return err
	}
	if schema != nil {
		if err := schema.ValidateMetadata(record.Metadata); err != nil {
			return err
		}
	}
	return nil
}

// nextSeq returns the next insertion sequence number.
func (r *RecordRepository) nextSeq() (uint64, error) {
	next, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		next, err = r.seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return next, nil
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Count returns the number of records in the index.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans the index, keeps records whose metadata satisfies the
// filter, and ranks them by cosine similarity (dot product of unit vectors).
// Ties are broken by ascending insertion sequence.
func (r *RecordRepository) FindSimilar(ctx context.Context, vector []float32, filter *core.Filter, limit int) ([]*core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	results := []*core.SearchResult{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.Record
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			// Skip records without embeddings, and records whose vector
			// dimension differs from the query's (left behind by an
			// embedding model change); a truncated dot product would
			// mis-rank them.
			if len(record.Vector) != len(vector) {
				continue
			}

			if !filter.Matches(record.Metadata) {
				continue
			}

			results = append(results, &core.SearchResult{
				Record: record,
				Score:  core.DotProduct(vector, record.Vector),
			})
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, insertion sequence ascending on ties
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Record.Seq < b.Record.Seq {
			return -1
		}
		if a.Record.Seq > b.Record.Seq {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// SaveSchema persists the metadata schema.
func (r *RecordRepository) SaveSchema(ctx context.Context, schema core.Schema) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSchemaKey(), storage.MarshalSchema(schema)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSchema retrieves the persisted metadata schema.
func (r *RecordRepository) LoadSchema(ctx context.Context) (core.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var schema core.Schema
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSchemaKey())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			schema, err = storage.UnmarshalSchema(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// readRecord reads and unmarshals a record inside a transaction.
// Returns nil without error when the key is absent.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
