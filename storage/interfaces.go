package storage

import "github.com/ZeshiKing/sydney-property-ai-Arthur/models"

// RawWriter persists the raw pre-deduplication records of one run.
type RawWriter interface {
	WriteRaw(properties []*models.Property) error
}

// PropertyStore persists canonical records and supports reading them back.
type PropertyStore interface {
	RawWriter
	FetchAll() ([]*models.Property, error)
	Clear() error
	Close() error
}
