// Package database opens the SQLite catalog database.
//
// # Architecture
//
// The database package only owns the connection and the schema. Row access
// goes through store.GormStore, and entity mapping through the catalog
// package:
//
//	database/    # connection setup, migrations
//	database/audit/  # audit_events repository
//	store/       # RecordStore over gorm (one transaction per store)
//	catalog/     # Save / Sync / Commit and relationship queries
//
// # Usage
//
//	db, err := database.NewDatabase("./catalog.db")
//	defer db.Close()
//
//	cat := db.NewCatalog()
//	defer cat.Close(ctx)
//
//	show := &entities.Show{Name: "Nice Show"}
//	err = cat.Save(ctx, show)
//	err = cat.Commit(ctx)
//
// # Tables
//
//   - tbl_clip, tbl_show, tbl_producer: entities with a unique name
//   - tbl_producer_show: producer ↔ show links
//   - tbl_selected_clip: clip ↔ producer/show pairing links
//   - audit_events: import, export and prune history (not a catalog entity)
//
// Link rows are not cascaded; removing a referenced row is not supported.
package database
