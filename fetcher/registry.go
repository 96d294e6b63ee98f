package fetcher

import (
	"sync"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
)

// Parser turns raw page content into normalized Property records for one
// source. Implementations live outside the orchestrator and are selected by
// source identifier at runtime.
type Parser interface {
	Parse(content string, task models.FetchTask) ([]*models.Property, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(content string, task models.FetchTask) ([]*models.Property, error)

func (f ParserFunc) Parse(content string, task models.FetchTask) ([]*models.Property, error) {
	return f(content, task)
}

// Registry maps source identifiers to their parsers. It is populated at
// startup and read concurrently by fetch workers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register installs (or replaces) the parser for a source.
func (r *Registry) Register(source string, p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[source] = p
}

// Lookup returns the parser registered for the source.
func (r *Registry) Lookup(source string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[source]
	return p, ok
}
