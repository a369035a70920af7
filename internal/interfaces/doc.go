// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - RecordStore: row access by table and id (internal/store/store.go)
//   - ShowClipJoiner: optional single-query clip lookup (internal/store/store.go)
//
// ## Domain
//
//   - Entity: a persistable catalog item with a fixed field order (internal/catalog/entity.go)
//
// ## Background Work
//
//   - ExportQueue: schedules show exports for the HTTP layer (internal/http/shows.go)
//
// # Adding a New Entity
//
//  1. Define the struct in internal/entities/ with gorm and validate tags,
//     and implement catalog.Entity:
//
//     type Venue struct {
//         ID   uint   `gorm:"primaryKey" json:"id"`
//         Name string `gorm:"uniqueIndex;size:64;not null" json:"name" validate:"required,max=64"`
//     }
//
//     func (Venue) TableName() string        { return "tbl_venue" }
//     func (v *Venue) Identifier() uint      { return v.ID }
//     func (v *Venue) SetIdentifier(id uint) { v.ID = id }
//     func (v *Venue) LookupName() string    { return v.Name }
//     func (v *Venue) Columns() []string     { return []string{"name"} }
//     func (v *Venue) ToMap() store.Record   { return store.Record{"name": v.Name} }
//     func (v *Venue) FromMap(rec store.Record) error
//
//  2. Add it to entities.Models() so the migration creates its table
//
//  3. Register routes in router.go:
//
//     registerEntity(api.Group("/venues"), NewEntityController[entities.Venue](cfg.Catalogs, "venue"))
//
//  4. Add a compile-time check next to the others in internal/catalog/entity.go
//
// # Adding a New Store
//
// A store only needs to satisfy store.RecordStore. Implementing
// store.ShowClipJoiner as well lets the catalog resolve a show's clips
// in one query instead of walking the link tables.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
