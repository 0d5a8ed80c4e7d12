package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/storage"
)

func newTestRepo(t *testing.T) storage.RecordRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("creating in-memory repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func hospitalRecord(name, city string, specialties core.Value, vector []float32) *core.Record {
	return &core.Record{
		Id:   core.IDFromContent(name + "|" + city),
		Text: name + " in " + city,
		Metadata: core.Metadata{
			{Key: "hospital_name", Value: core.String(name)},
			{Key: "city", Value: core.String(city)},
			{Key: "specialties", Value: specialties},
		},
		Vector: vector,
	}
}

func hospitalSchema(t *testing.T) core.Schema {
	t.Helper()
	schema, err := core.NewSchema(map[string]core.FieldType{
		"hospital_name": core.FieldString,
		"city":          core.FieldString,
		"specialties":   core.FieldStringSet,
	})
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return schema
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology"), []float32{1, 0, 0})

	outcome, err := repo.Upsert(ctx, record)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if len(outcome.Inserted) != 1 || outcome.Inserted[0] != record.Id {
		t.Fatalf("expected one inserted id, got %+v", outcome)
	}

	stored, err := repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("get after insert failed: %v", err)
	}
	firstSeq := stored.Seq
	firstInsertedAt := stored.InsertedAt
	if firstSeq == 0 {
		t.Fatal("expected a non-zero insertion sequence")
	}

	// Re-upserting the same id must replace in place, not duplicate.
	again := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology", "neurology"), []float32{0, 1, 0})
	outcome, err = repo.Upsert(ctx, again)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if len(outcome.Updated) != 1 || len(outcome.Inserted) != 0 {
		t.Fatalf("expected one updated id, got %+v", outcome)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after re-upsert, got %d", count)
	}

	stored, err = repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("get after update failed: %v", err)
	}
	if stored.Seq != firstSeq {
		t.Fatalf("update must preserve the insertion sequence: got %d, want %d", stored.Seq, firstSeq)
	}
	if !stored.InsertedAt.Equal(firstInsertedAt) {
		t.Fatal("update must preserve InsertedAt")
	}
	if specs, _ := stored.Metadata.Get("specialties"); !specs.Contains("neurology") {
		t.Fatal("update must replace metadata with the new version")
	}
	if stored.Vector[1] != 1 {
		t.Fatal("update must replace the vector with the new version")
	}
}

func TestUpsertIsolatesInvalidRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	good1 := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology"), []float32{1, 0})
	bad := &core.Record{Id: 42} // no text
	good2 := hospitalRecord("Metro Clinic", "Mumbai", core.StringSet("orthopedics"), []float32{0, 1})

	outcome, err := repo.Upsert(ctx, good1, bad, good2)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if len(outcome.Inserted) != 2 {
		t.Fatalf("expected 2 inserted, got %d", len(outcome.Inserted))
	}
	if len(outcome.Failed) != 1 {
		t.Fatalf("expected 1 failed, got %d", len(outcome.Failed))
	}
	if outcome.Failed[0].Id != 42 {
		t.Fatalf("failure must carry the record id, got %d", outcome.Failed[0].Id)
	}
	if !errors.Is(outcome.Failed[0].Err, core.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", outcome.Failed[0].Err)
	}

	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Fatalf("invalid record must not block the rest: got count %d", count)
	}
}

func TestUpsertEnforcesSchema(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveSchema(ctx, hospitalSchema(t)); err != nil {
		t.Fatalf("saving schema: %v", err)
	}

	record := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology"), []float32{1})
	record.Metadata = record.Metadata.Add("country", core.String("India"))

	outcome, err := repo.Upsert(ctx, record)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if len(outcome.Failed) != 1 || !errors.Is(outcome.Failed[0].Err, core.ErrUnknownField) {
		t.Fatalf("expected an unknown-field failure, got %+v", outcome)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRecord(context.Background(), 12345)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindSimilarFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	schema := hospitalSchema(t)

	jaipur := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology", "orthopedics"), []float32{1, 0})
	mumbai := hospitalRecord("Metro Clinic", "Mumbai", core.StringSet("cardiology"), []float32{1, 0})
	delhi := hospitalRecord("Capital Care", "Delhi", core.StringSet("neurology"), []float32{1, 0})

	if _, err := repo.Upsert(ctx, jaipur, mumbai, delhi); err != nil {
		t.Fatalf("seeding records: %v", err)
	}

	t.Run("city equality", func(t *testing.T) {
		filter, err := core.NewFilter(schema, core.Equals("city", core.String("Jaipur")))
		if err != nil {
			t.Fatalf("building filter: %v", err)
		}
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, filter, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 1 || results[0].Record.Id != jaipur.Id {
			t.Fatalf("expected only the Jaipur record, got %d results", len(results))
		}
	})

	t.Run("specialty containment", func(t *testing.T) {
		filter, err := core.NewFilter(schema, core.Contains("specialties", "cardiology"))
		if err != nil {
			t.Fatalf("building filter: %v", err)
		}
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, filter, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 cardiology hospitals, got %d", len(results))
		}
	})

	t.Run("conjunction of predicates", func(t *testing.T) {
		filter, err := core.NewFilter(schema,
			core.Equals("city", core.String("Mumbai")),
			core.Contains("specialties", "cardiology"),
		)
		if err != nil {
			t.Fatalf("building filter: %v", err)
		}
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, filter, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 1 || results[0].Record.Id != mumbai.Id {
			t.Fatalf("expected only the Mumbai record, got %d results", len(results))
		}
	})

	t.Run("nil filter matches everything", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, nil, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected all 3 records, got %d", len(results))
		}
	})
}

func TestFindSimilarRanking(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	far := hospitalRecord("Far", "A", core.StringSet("x"), []float32{0, 1, 0})
	close1 := hospitalRecord("Close", "B", core.StringSet("x"), []float32{1, 0, 0})
	mid := hospitalRecord("Mid", "C", core.StringSet("x"), []float32{0.8, 0.6, 0})

	if _, err := repo.Upsert(ctx, far, close1, mid); err != nil {
		t.Fatalf("seeding records: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantOrder := []core.ID{close1.Id, mid.Id, far.Id}
	for i, want := range wantOrder {
		if results[i].Record.Id != want {
			t.Fatalf("rank %d: got id %d, want %d", i, results[i].Record.Id, want)
		}
	}
	if results[0].Score < results[1].Score || results[1].Score < results[2].Score {
		t.Fatal("scores must be non-increasing")
	}

	// Limit truncates after ranking.
	results, err = repo.FindSimilar(ctx, []float32{1, 0, 0}, nil, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 || results[0].Record.Id != close1.Id {
		t.Fatalf("expected the top 2 results, got %d", len(results))
	}
}

func TestFindSimilarTieBreaksByInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := hospitalRecord("First", "A", core.StringSet("x"), []float32{1, 0})
	second := hospitalRecord("Second", "B", core.StringSet("x"), []float32{1, 0})

	if _, err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("seeding first record: %v", err)
	}
	if _, err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("seeding second record: %v", err)
	}

	// Equal scores; the earlier insertion must rank first, every time.
	for i := 0; i < 5; i++ {
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, nil, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Record.Id != first.Id || results[1].Record.Id != second.Id {
			t.Fatalf("run %d: tie not broken by insertion order", i)
		}
	}
}

func TestFindSimilarSkipsMismatchedDimensions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	matching := hospitalRecord("Matching", "A", core.StringSet("x"), []float32{1, 0})
	stale := hospitalRecord("Stale", "B", core.StringSet("x"), []float32{1, 0, 0})
	unembedded := hospitalRecord("Unembedded", "C", core.StringSet("x"), nil)

	if _, err := repo.Upsert(ctx, matching, stale, unembedded); err != nil {
		t.Fatalf("seeding records: %v", err)
	}

	// Records embedded with a different model dimension must not be ranked
	// against a truncated dot product.
	results, err := repo.FindSimilar(ctx, []float32{1, 0}, nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Record.Id != matching.Id {
		t.Fatalf("expected only the dimension-matching record, got %d results", len(results))
	}
}

func TestFindSimilarEmptyIndex(t *testing.T) {
	repo := newTestRepo(t)

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0}, nil, 10)
	if err != nil {
		t.Fatalf("search on empty index failed: %v", err)
	}
	if results == nil {
		t.Fatal("expected a non-nil empty slice")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestFindSimilarInvalidQuery(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.FindSimilar(ctx, nil, nil, 10); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("empty vector: expected ErrInvalidQuery, got %v", err)
	}
	if _, err := repo.FindSimilar(ctx, []float32{1}, nil, 0); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("zero limit: expected ErrInvalidQuery, got %v", err)
	}
}

func TestSchemaSaveLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.LoadSchema(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	schema := hospitalSchema(t)
	if err := repo.SaveSchema(ctx, schema); err != nil {
		t.Fatalf("saving schema: %v", err)
	}

	loaded, err := repo.LoadSchema(ctx)
	if err != nil {
		t.Fatalf("loading schema: %v", err)
	}
	if len(loaded) != len(schema) {
		t.Fatalf("schema mismatch: got %d fields, want %d", len(loaded), len(schema))
	}
	for name, ft := range schema {
		if loaded[name] != ft {
			t.Fatalf("field %q: got type %d, want %d", name, loaded[name], ft)
		}
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()

	record := hospitalRecord("City Hospital", "Jaipur", core.StringSet("cardiology"), []float32{1, 0})

	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("opening backend: %v", err)
	}
	repo, err := NewRecordRepository(backend)
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	if err := repo.SaveSchema(ctx, hospitalSchema(t)); err != nil {
		t.Fatalf("saving schema: %v", err)
	}
	if _, err := repo.Upsert(ctx, record); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	repo.Close()
	if err := backend.Close(); err != nil {
		t.Fatalf("closing backend: %v", err)
	}

	backend, err = OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("reopening backend: %v", err)
	}
	repo, err = NewRecordRepository(backend)
	if err != nil {
		t.Fatalf("recreating repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	stored, err := repo.GetRecord(ctx, record.Id)
	if err != nil {
		t.Fatalf("record lost across reopen: %v", err)
	}
	if stored.Text != record.Text {
		t.Fatalf("stored text mismatch: %q", stored.Text)
	}
	if _, err := repo.LoadSchema(ctx); err != nil {
		t.Fatalf("schema lost across reopen: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", count)
	}
}
