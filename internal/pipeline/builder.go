package pipeline

import (
	"github.com/rooftopdata/solar-survey/internal/domain"
)

// RecordBuilder implements Builder, assigning unique contiguous IDs in input
// order. Not safe for concurrent use; the pipeline builds records one batch
// at a time on a single goroutine.
type RecordBuilder struct {
	nextID int
}

// NewBuilder creates a RecordBuilder starting at the given ID offset.
// Surveys start at 1.
func NewBuilder(startID int) *RecordBuilder {
	return &RecordBuilder{nextID: startID}
}

func (b *RecordBuilder) Build(lk domain.Lookup) domain.PropertyRecord {
	id := b.nextID
	b.nextID++
	return domain.BuildRecord(id, lk)
}
