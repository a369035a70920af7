// Package store provides the record-level storage used by the catalog.
//
// A RecordStore works with untyped rows keyed by column name. It knows
// nothing about clips, shows or producers; the catalog package maps
// entities to and from records.
//
// # Implementations
//
//   - GormStore: SQLite through gorm. Writes are collected in a
//     transaction that is opened on first use and closed by Commit.
//   - MemoryStore: map-backed store for tests and tooling.
//
// # Usage
//
//	st := store.NewGormStore(db.DB)
//	defer st.Rollback(ctx)
//
//	id, err := st.Insert(ctx, "tbl_show", store.Record{"name": "Nice Show"})
//	err = st.Commit(ctx)
package store

import (
	"context"
	"errors"
)

// IDColumn is the primary key column shared by every table.
const IDColumn = "id"

// Catalog table names.
const (
	TableClip         = "tbl_clip"
	TableShow         = "tbl_show"
	TableProducer     = "tbl_producer"
	TableProducerShow = "tbl_producer_show"
	TableSelectedClip = "tbl_selected_clip"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate value for unique column")
)

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RecordStore is the storage contract used by the catalog.
type RecordStore interface {
	// Insert adds a row and returns the id assigned by the store.
	Insert(ctx context.Context, table string, rec Record) (uint, error)

	// Update replaces the columns of the row with the given id.
	// Returns ErrNotFound if there is no such row.
	Update(ctx context.Context, table string, id uint, rec Record) error

	// Get loads the row with the given id, including the id column.
	Get(ctx context.Context, table string, id uint) (Record, error)

	// FindID returns the id of the first row whose column equals value.
	FindID(ctx context.Context, table, column string, value any) (uint, error)

	// Pluck returns the values of an id-typed column for all rows
	// matching every column/value pair in where.
	Pluck(ctx context.Context, table, column string, where Record) ([]uint, error)

	// Commit makes pending writes durable.
	Commit(ctx context.Context) error

	// Rollback discards pending writes. It is safe to call after Commit.
	Rollback(ctx context.Context) error
}

// ShowClipJoiner is implemented by stores that can resolve the clips of a
// show in a single query instead of walking both link tables.
type ShowClipJoiner interface {
	ShowClipIDs(ctx context.Context, showID uint) ([]uint, error)
}
