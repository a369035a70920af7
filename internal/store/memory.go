package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cast"
)

// MemoryStore is an in-memory RecordStore.
//
// Writes are visible immediately to the same store and are kept until
// Rollback, which restores the state of the last Commit. Unique columns
// must be declared with WithUnique to get ErrDuplicate on conflicts.
type MemoryStore struct {
	mu        sync.Mutex
	tables    map[string]map[uint]Record
	sequences map[string]uint
	unique    map[string][]string

	committedTables    map[string]map[uint]Record
	committedSequences map[string]uint
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithUnique declares columns of table whose values must be unique.
func WithUnique(table string, columns ...string) MemoryOption {
	return func(s *MemoryStore) {
		s.unique[table] = append(s.unique[table], columns...)
	}
}

// WithCatalogConstraints declares the unique name columns of the catalog tables.
func WithCatalogConstraints() MemoryOption {
	return func(s *MemoryStore) {
		for _, table := range []string{TableClip, TableShow, TableProducer} {
			s.unique[table] = append(s.unique[table], "name")
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		tables:             make(map[string]map[uint]Record),
		sequences:          make(map[string]uint),
		unique:             make(map[string][]string),
		committedTables:    make(map[string]map[uint]Record),
		committedSequences: make(map[string]uint),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) table(name string) map[uint]Record {
	rows, ok := s.tables[name]
	if !ok {
		rows = make(map[uint]Record)
		s.tables[name] = rows
	}
	return rows
}

func (s *MemoryStore) checkUnique(table string, id uint, rec Record) error {
	for _, column := range s.unique[table] {
		value, ok := rec[column]
		if !ok || value == nil {
			continue
		}
		for otherID, other := range s.tables[table] {
			if otherID != id && other[column] == value {
				return fmt.Errorf("%s.%s=%v: %w", table, column, value, ErrDuplicate)
			}
		}
	}
	return nil
}

// Insert adds a row with the next id of the table.
func (s *MemoryStore) Insert(ctx context.Context, table string, rec Record) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(table, 0, rec); err != nil {
		return 0, err
	}

	s.sequences[table]++
	id := s.sequences[table]

	row := rec.Clone()
	row[IDColumn] = id
	s.table(table)[id] = row
	return id, nil
}

// Update replaces the given columns of an existing row.
func (s *MemoryStore) Update(ctx context.Context, table string, id uint, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tables[table][id]
	if !ok {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	if err := s.checkUnique(table, id, rec); err != nil {
		return err
	}

	updated := row.Clone()
	for k, v := range rec {
		if k != IDColumn {
			updated[k] = v
		}
	}
	s.tables[table][id] = updated
	return nil
}

// Get returns a copy of the row with the given id.
func (s *MemoryStore) Get(ctx context.Context, table string, id uint) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tables[table][id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return row.Clone(), nil
}

// FindID returns the lowest id whose column equals value.
func (s *MemoryStore) FindID(ctx context.Context, table, column string, value any) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.sortedIDs(table) {
		if s.tables[table][id][column] == value {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%s %s=%v: %w", table, column, value, ErrNotFound)
}

// Pluck returns the id-typed column of every matching row in id order.
func (s *MemoryStore) Pluck(ctx context.Context, table, column string, where Record) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := []uint{}
	for _, id := range s.sortedIDs(table) {
		row := s.tables[table][id]
		if !matches(row, where) {
			continue
		}
		value, err := toUint(row[column])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", table, column, err)
		}
		values = append(values, value)
	}
	return values, nil
}

// Commit snapshots the current state.
func (s *MemoryStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committedTables = copyTables(s.tables)
	s.committedSequences = copySequences(s.sequences)
	return nil
}

// Rollback restores the last committed state.
func (s *MemoryStore) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables = copyTables(s.committedTables)
	s.sequences = copySequences(s.committedSequences)
	return nil
}

// Len returns the number of rows in table.
func (s *MemoryStore) Len(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

func (s *MemoryStore) sortedIDs(table string) []uint {
	ids := make([]uint, 0, len(s.tables[table]))
	for id := range s.tables[table] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func matches(row, where Record) bool {
	for column, want := range where {
		got, ok := row[column]
		if !ok {
			return false
		}
		if gotID, err := toUint(got); err == nil {
			if wantID, err := toUint(want); err == nil {
				if gotID != wantID {
					return false
				}
				continue
			}
		}
		if got != want {
			return false
		}
	}
	return true
}

func toUint(v any) (uint, error) {
	if v == nil {
		return 0, fmt.Errorf("value is null")
	}
	return cast.ToUintE(v)
}

func copyTables(src map[string]map[uint]Record) map[string]map[uint]Record {
	dst := make(map[string]map[uint]Record, len(src))
	for name, rows := range src {
		copied := make(map[uint]Record, len(rows))
		for id, row := range rows {
			copied[id] = row.Clone()
		}
		dst[name] = copied
	}
	return dst
}

func copySequences(src map[string]uint) map[string]uint {
	dst := make(map[string]uint, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

var _ RecordStore = (*MemoryStore)(nil)
