package ingestion

import (
	"fmt"
	"strings"

	"github.com/medisearch/medisearch/core"
)

// HospitalRow is one parsed source row of the hospital dataset.
// Parsing the upstream format (CSV or otherwise) into rows is the caller's
// responsibility; the pipeline only sees structured data.
type HospitalRow struct {
	HospitalName string
	City         string
	Address      string
	Specialties  []string
	Insurers     []string
	Rating       float64
	Phone        string
	Website      string
	Latitude     float64
	Longitude    float64
}

// HospitalSchema declares the metadata fields of the hospital index.
// Filters are validated against this schema; records carrying fields of
// other types are rejected at upsert.
func HospitalSchema() core.Schema {
	schema, err := core.NewSchema(map[string]core.FieldType{
		"hospital_name": core.FieldString,
		"address":       core.FieldString,
		"city":          core.FieldString,
		"lat":           core.FieldNumber,
		"lon":           core.FieldNumber,
		"specialties":   core.FieldStringSet,
		"insurers":      core.FieldStringSet,
		"rating":        core.FieldNumber,
		"phone":         core.FieldString,
		"website":       core.FieldString,
	})
	if err != nil {
		// The field set is static and known valid.
		panic(err)
	}
	return schema
}

// BuildRecord converts a source row into an index record: a canonical
// natural-language description for embedding, typed metadata for filtering,
// and a content-hash ID stable across re-ingestion of the same entity.
func BuildRecord(row HospitalRow) (*core.Record, error) {
	name := strings.TrimSpace(row.HospitalName)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidRecord, ErrMissingName)
	}

	city := strings.TrimSpace(row.City)
	address := strings.TrimSpace(row.Address)
	specialties := cleanList(row.Specialties)
	insurers := cleanList(row.Insurers)

	specialtyPhrase := "general care"
	if len(specialties) > 0 {
		specialtyPhrase = strings.Join(specialties, ", ")
	}
	insurerPhrase := "various insurers"
	if len(insurers) > 0 {
		insurerPhrase = strings.Join(insurers, ", ")
	}

	text := fmt.Sprintf("%s in %s offers services in %s and accepts %s. Address: %s.",
		name, city, specialtyPhrase, insurerPhrase, address)

	// Inline tags help recall on specialty queries
	if len(specialties) > 0 {
		text += "\nTAGS: " + strings.Join(specialties, ", ")
	}

	metadata := core.Metadata{
		{Key: "hospital_name", Value: core.String(name)},
		{Key: "address", Value: core.String(address)},
		{Key: "city", Value: core.String(city)},
		{Key: "lat", Value: core.Number(row.Latitude)},
		{Key: "lon", Value: core.Number(row.Longitude)},
		{Key: "specialties", Value: core.StringSet(specialties...)},
		{Key: "insurers", Value: core.StringSet(insurers...)},
		{Key: "rating", Value: core.Number(row.Rating)},
		{Key: "phone", Value: core.String(strings.TrimSpace(row.Phone))},
		{Key: "website", Value: core.String(strings.TrimSpace(row.Website))},
	}

	return &core.Record{
		Id:       core.IDFromContent(name + "|" + city + "|" + address),
		Text:     text,
		Metadata: metadata,
	}, nil
}

// cleanList trims members and drops empty ones.
func cleanList(items []string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			kept = append(kept, item)
		}
	}
	return kept
}
