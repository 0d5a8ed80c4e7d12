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


package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/medisearch/medisearch"
	"github.com/medisearch/medisearch/ai"
	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/ingestion"
	"github.com/medisearch/medisearch/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "medisearch",
		Usage: "Semantic hospital search over a local vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Build or refresh the index from a hospital CSV file",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the hospital CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Number of records to embed and upsert per chunk",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the index with a free-text query",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "city",
						Usage: "Restrict results to an exact city",
					},
					&cli.StringFlag{
						Name:  "specialty",
						Usage: "Restrict results to hospitals offering a specialty",
					},
					&cli.StringFlag{
						Name:  "insurer",
						Usage: "Restrict results to hospitals accepting an insurer",
					},
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func openDatabase(c *cli.Context) (*medisearch.Database, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	return medisearch.NewDatabase(c.String("db"), medisearch.WithAIConfig(cfg))
}

func ingestCommand(c *cli.Context) error {
	rows, err := readHospitalCSV(c.String("csv"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithMaxRetries(c.Int("max-retries")),
		ingestion.WithRetryDelay(c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(c.Context, rows)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d rows: %d inserted, %d updated, %d failed\n",
		len(rows), report.Inserted, report.Updated, len(report.Failed))
	for _, failure := range report.Failed {
		fmt.Printf("  row %d: %s\n", failure.Row, failure.Reason)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	filter, err := buildFilter(c, searcher)
	if err != nil {
		return err
	}

	results, err := searcher.Query(c.Context, query, filter, c.Int("max-hits"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		printHit(os.Stdout, i+1, hit)
	}
	return nil
}

// buildFilter translates the CLI filter flags into a validated filter.
// An empty value or the "All" sentinel means no predicate for that field.
func buildFilter(c *cli.Context, searcher *search.Searcher) (*core.Filter, error) {
	var preds []core.Predicate
	if v := filterValue(c.String("city")); v != "" {
		preds = append(preds, core.Equals("city", core.String(v)))
	}
	if v := filterValue(c.String("specialty")); v != "" {
		preds = append(preds, core.Contains("specialties", v))
	}
	if v := filterValue(c.String("insurer")); v != "" {
		preds = append(preds, core.Contains("insurers", v))
	}
	if len(preds) == 0 {
		return nil, nil
	}

	schema, err := searcher.Schema(c.Context)
	if err != nil {
		return nil, fmt.Errorf("loading index schema: %w", err)
	}
	return core.NewFilter(schema, preds...)
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "All") {
		return ""
	}
	return v
}

func printHit(w io.Writer, rank int, hit *core.SearchResult) {
	md := hit.Record.Metadata

	name := metaStr(md, "hospital_name")
	city := metaStr(md, "city")
	fmt.Fprintf(w, "%d. %s - %s [%.3f]\n", rank, name, city, hit.Score)

	if address := metaStr(md, "address"); address != "" {
		fmt.Fprintf(w, "   %s\n", address)
	}
	if phone := metaStr(md, "phone"); phone != "" {
		fmt.Fprintf(w, "   %s\n", phone)
	}
	fmt.Fprintf(w, "   %s\n", search.Snippet(hit.Record.Text, search.SnippetLength))
}

func metaStr(md core.Metadata, key string) string {
	v, ok := md.Get(key)
	if !ok {
		return ""
	}
	return v.Display()
}
