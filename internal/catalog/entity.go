// Package catalog maps catalog entities onto a store.RecordStore.
//
// An entity is an in-memory view of one row. Nothing is written back
// automatically: Save persists the view, Sync reloads it, Commit makes the
// pending writes durable.
//
// Relationship queries (Producers, Clips) return entities that carry only
// their id. Call Sync or Fetch on them to load the remaining fields.
//
// # Usage
//
//	cat := catalog.New(store.NewGormStore(db.DB))
//	defer cat.Close(ctx)
//
//	show := &entities.Show{Name: "Nice Show"}
//	if err := cat.Save(ctx, show); err != nil { ... }
//	if err := cat.Commit(ctx); err != nil { ... }
package catalog

import (
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// Entity is a row-backed catalog object.
type Entity interface {
	TableName() string
	Identifier() uint
	SetIdentifier(id uint)
	// LookupName is the unique name used to locate the row when no id
	// is known. Link entities return "".
	LookupName() string
	// Columns lists the persisted data columns, excluding the id.
	Columns() []string
	// ToMap returns every data column, excluding the id.
	ToMap() store.Record
	// FromMap copies the known columns present in rec. Unknown keys are ignored.
	FromMap(rec store.Record) error
}

// Fields returns all persisted columns of e, id first.
func Fields(e Entity) []string {
	columns := e.Columns()
	fields := make([]string, 0, len(columns)+1)
	fields = append(fields, store.IDColumn)
	return append(fields, columns...)
}

// Compile-time checks for catalog entities.
var (
	_ Entity = (*entities.Clip)(nil)
	_ Entity = (*entities.Show)(nil)
	_ Entity = (*entities.Producer)(nil)
	_ Entity = (*entities.ProducerShow)(nil)
	_ Entity = (*entities.SelectedClip)(nil)
)
