package search

import "github.com/medisearch/medisearch/core"

// SearchMonitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps during a search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbedding(dimensions int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterEmbedding(_ int)            {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)   {}
