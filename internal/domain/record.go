package domain

import (
	"context"
	"time"
)

// Record is a single entry of a collection. Position is its zero-based index
// in insertion order and is assigned by the repository.
// swagger:model Record
type Record struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	Position     int       `json:"position"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRecord returns a new Record for the given collection.
func NewRecord(collectionID, title, body string, createdAt time.Time) *Record {
	return &Record{
		CollectionID: collectionID,
		Title:        title,
		Body:         body,
		CreatedAt:    createdAt,
	}
}

// RecordRepository is the record collection provider. ListRange takes the
// zero-based inclusive range produced by PageState and clamps it against the
// real collection size; an end below begin or below zero yields no records.
//
// Append stores records at the end of the collection as one unit: either every
// record gets the next consecutive position or none is stored. Concurrent
// appends to the same collection are serialized. A missing collection is
// ErrNotFound.
type RecordRepository interface {
	Append(ctx context.Context, collectionID string, records []*Record) error
	Count(ctx context.Context, collectionID string) (int, error)
	ListRange(ctx context.Context, collectionID string, begin, end int) ([]*Record, error)
}

// RangeLimit converts an inclusive [begin, end] range into offset and limit.
// ok is false when the range holds nothing.
func RangeLimit(begin, end int) (offset, limit int, ok bool) {
	begin = max(begin, 0)
	if end < begin {
		return 0, 0, false
	}
	return begin, end - begin + 1, true
}
