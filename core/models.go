package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed records.
// It is derived from stable record content so that re-ingesting the same
// entity upserts in place instead of creating a duplicate.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Record is one indexed entity: a canonical text description, typed metadata,
// and the embedding vector of the text.
type Record struct {
	Id         ID
	Text       string    // canonical description, input to the embedder
	Metadata   Metadata  // typed fields, input to filters
	Vector     []float32 // unit-normalized embedding of Text
	Seq        uint64    // insertion sequence, assigned on first insert
	InsertedAt time.Time // when the record was first inserted
	UpdatedAt  time.Time // when the record was last overwritten
}

// SearchResult is a record matched by a similarity search, with its
// cosine similarity to the query vector.
type SearchResult struct {
	Record *Record
	Score  float32
}
