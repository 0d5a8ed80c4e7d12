package main

import (
	"bytes"
	"testing"

	"github.com/medisearch/medisearch/core"
	"github.com/stretchr/testify/assert"
)

func TestPrintHit(t *testing.T) {
	hit := &core.SearchResult{
		Record: &core.Record{
			Id:   1,
			Text: "City Hospital in Jaipur offers services in cardiology.",
			Metadata: core.Metadata{
				{Key: "hospital_name", Value: core.String("City Hospital")},
				{Key: "city", Value: core.String("Jaipur")},
				{Key: "address", Value: core.String("12 MG Road")},
				{Key: "phone", Value: core.String("+91 141 000000")},
			},
		},
		Score: 0.8751,
	}

	var buf bytes.Buffer
	printHit(&buf, 1, hit)
	out := buf.String()

	assert.Contains(t, out, "1. City Hospital - Jaipur [0.875]")
	assert.Contains(t, out, "12 MG Road")
	assert.Contains(t, out, "+91 141 000000")
	for _, r := range out {
		assert.Less(t, r, rune(128), "output must be plain ASCII")
	}
}

func TestPrintHitOmitsBlankContactLines(t *testing.T) {
	hit := &core.SearchResult{
		Record: &core.Record{
			Id:   2,
			Text: "Metro Clinic in Mumbai.",
			Metadata: core.Metadata{
				{Key: "hospital_name", Value: core.String("Metro Clinic")},
				{Key: "city", Value: core.String("Mumbai")},
			},
		},
		Score: 0.5,
	}

	var buf bytes.Buffer
	printHit(&buf, 2, hit)

	assert.Equal(t,
		"2. Metro Clinic - Mumbai [0.500]\n   Metro Clinic in Mumbai.\n",
		buf.String())
}
