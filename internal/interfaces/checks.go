package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/clipcatalog/internal/http"
	"github.com/mrlokans/clipcatalog/internal/store"
	"github.com/mrlokans/clipcatalog/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

// Entity checks live next to the interface in internal/catalog/entity.go.

// RecordStore implementations
var _ store.RecordStore = (*store.GormStore)(nil)
var _ store.RecordStore = (*store.MemoryStore)(nil)

// Single-query clip join
var _ store.ShowClipJoiner = (*store.GormStore)(nil)

// =============================================================================
// Background Work
// =============================================================================

// ExportQueue implementations
var _ http.ExportQueue = (*tasks.Client)(nil)
