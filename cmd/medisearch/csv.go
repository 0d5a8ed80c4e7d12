package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/medisearch/medisearch/core"
	"github.com/medisearch/medisearch/ingestion"
)

// readHospitalCSV parses a hospital dataset CSV into structured rows.
// The first line is the header; columns are matched by name, so column
// order does not matter and unknown columns are ignored.
func readHospitalCSV(path string) ([]ingestion.HospitalRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var rows []ingestion.HospitalRow
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		get := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rows = append(rows, ingestion.HospitalRow{
			HospitalName: get("hospital_name"),
			City:         get("city"),
			Address:      get("address"),
			Specialties:  splitList(get("specialties")),
			Insurers:     splitList(get("insurers")),
			Rating:       safeFloat(get("rating")),
			Phone:        get("phone"),
			Website:      get("website"),
			Latitude:     safeFloat(get("latitude")),
			Longitude:    safeFloat(get("longitude")),
		})
	}

	return rows, nil
}

// splitList splits a pipe-joined multi-value cell into its members.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, core.SetDelimiter)
	members := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			members = append(members, part)
		}
	}
	return members
}

// safeFloat parses a numeric cell, defaulting to 0 on blank or malformed input.
func safeFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
