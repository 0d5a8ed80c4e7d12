package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic
// for a fixed model version: the same input always yields the same vector.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Fails with ErrEmptyInput on empty or whitespace-only input and with
	// an error wrapping ErrEmbedding when the backing model is unavailable.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases resources held by the embedder. After Close the
	// embedder must not be used.
	Close() error
}
