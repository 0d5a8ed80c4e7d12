package medisearch

import (
	"context"
	"testing"

	"github.com/medisearch/medisearch/ai/mock"
	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/ingestion"
	"github.com/medisearch/medisearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("",
		WithInMemory(),
		WithEmbedder(mock.NewMockEmbedder()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testHospitals() []ingestion.HospitalRow {
	return []ingestion.HospitalRow{
		{
			HospitalName: "City Hospital",
			City:         "Jaipur",
			Address:      "12 MG Road",
			Specialties:  []string{"cardiology", "orthopedics"},
			Insurers:     []string{"Star Health"},
			Rating:       4.2,
		},
		{
			HospitalName: "Metro Clinic",
			City:         "Mumbai",
			Address:      "3 Marine Drive",
			Specialties:  []string{"cardiology"},
			Insurers:     []string{"HDFC Ergo"},
			Rating:       4.5,
		},
		{
			HospitalName: "Capital Care",
			City:         "Delhi",
			Address:      "7 Ring Road",
			Specialties:  []string{"dermatology"},
			Insurers:     []string{"Star Health"},
			Rating:       3.9,
		},
	}
}

func TestDatabaseIngestAndSearch(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	report, err := pipeline.Ingest(ctx, testHospitals())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted)
	assert.Empty(t, report.Failed)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	results, err := searcher.Query(ctx, "heart care hospital", nil, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	for _, hit := range results {
		assert.NotEmpty(t, hit.Record.Text)
		assert.NotZero(t, hit.Record.Id)
	}
}

func TestDatabaseFilteredSearch(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	_, err = pipeline.Ingest(ctx, testHospitals())
	require.NoError(t, err)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	schema, err := searcher.Schema(ctx)
	require.NoError(t, err)

	t.Run("by city", func(t *testing.T) {
		filter, err := core.NewFilter(schema, core.Equals("city", core.String("Jaipur")))
		require.NoError(t, err)

		results, err := searcher.Query(ctx, "hospital", filter, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		name, _ := results[0].Record.Metadata.Get("hospital_name")
		assert.Equal(t, "City Hospital", name.Str())
	})

	t.Run("by specialty and insurer", func(t *testing.T) {
		filter, err := core.NewFilter(schema,
			core.Contains("specialties", "cardiology"),
			core.Contains("insurers", "Star Health"),
		)
		require.NoError(t, err)

		results, err := searcher.Query(ctx, "hospital", filter, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		name, _ := results[0].Record.Metadata.Get("hospital_name")
		assert.Equal(t, "City Hospital", name.Str())
	})

	t.Run("unknown field fails before querying", func(t *testing.T) {
		_, err := core.NewFilter(schema, core.Equals("country", core.String("India")))
		require.ErrorIs(t, err, core.ErrUnknownField)
	})
}

func TestDatabaseReingestIsIdempotent(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(ctx, testHospitals())
	require.NoError(t, err)
	report, err := pipeline.Ingest(ctx, testHospitals())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 3, report.Updated)

	count, err := db.RecordRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDatabaseSearchValidation(t *testing.T) {
	db := newTestDatabase(t)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)

	_, err = searcher.Query(context.Background(), "", nil, 5)
	require.ErrorIs(t, err, search.ErrEmptyQuery)

	_, err = searcher.Query(context.Background(), "hospital", nil, search.DefaultMaxHits+1)
	require.ErrorIs(t, err, search.ErrInvalidLimit)
}
