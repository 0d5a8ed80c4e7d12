// Package mock provides a deterministic ai.Embedder test double.
// The default behavior hashes input text into a repeatable vector so tests
// get stable similarity rankings without a live embedding service.
package mock
