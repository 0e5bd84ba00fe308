// Package history records completed price searches.
//
// Backends:
//   - memory: bounded in-process store, for tests and one-shot runs
//   - file: one JSON file per record, the CLI default
//   - mongo: a MongoDB collection, for sharing history between machines
//
// Records are written after a search finishes and are never updated.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records Recent returns for a zero limit.
const DefaultLimit = 20

// Record is one completed search. Counts holds the offers per source and
// Failed the sources that errored.
type Record struct {
	ID        string         `json:"id" bson:"_id"`
	Query     string         `json:"query" bson:"query"`
	Kind      string         `json:"kind" bson:"kind"`
	Counts    map[string]int `json:"counts" bson:"counts"`
	Failed    []string       `json:"failed,omitempty" bson:"failed"`
	Total     int            `json:"total" bson:"total"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// New creates a record with a fresh ID and the current time.
func New(query, kind string, counts map[string]int, failed []string) Record {
	total := 0
	for _, n := range counts {
		total += n
	}
	return Record{
		ID:        uuid.NewString(),
		Query:     query,
		Kind:      kind,
		Counts:    counts,
		Failed:    failed,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for history backends.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, r Record) error

	// Recent returns up to limit records, newest first.
	// A non-positive limit means DefaultLimit.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
