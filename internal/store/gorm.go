package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const showClipIDsQuery = `
	SELECT tbl_clip.id FROM tbl_producer_show
	JOIN tbl_selected_clip ON tbl_selected_clip.ps_id = tbl_producer_show.id
	JOIN tbl_clip ON tbl_clip.id = tbl_selected_clip.clip_id
	WHERE tbl_producer_show.show_id = ?
`

// GormStore is a RecordStore backed by a gorm connection.
//
// All operations run inside one transaction that is started lazily and
// finished by Commit or Rollback. A GormStore must not be shared between
// goroutines; open one per unit of work.
type GormStore struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewGormStore creates a store on top of an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) session(ctx context.Context) (*gorm.DB, error) {
	if s.tx == nil {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, fmt.Errorf("begin transaction: %w", tx.Error)
		}
		s.tx = tx
	}
	return s.tx.WithContext(ctx), nil
}

// Insert adds a row and returns its new id.
func (s *GormStore) Insert(ctx context.Context, table string, rec Record) (uint, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	values := map[string]interface{}(rec.Clone())
	delete(values, IDColumn)

	if err := tx.Table(table).Create(values).Error; err != nil {
		return 0, translateError(err)
	}

	var id int64
	if err := tx.Raw("SELECT last_insert_rowid()").Scan(&id).Error; err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return uint(id), nil
}

// Update overwrites every column in rec for the row with the given id.
func (s *GormStore) Update(ctx context.Context, table string, id uint, rec Record) error {
	tx, err := s.session(ctx)
	if err != nil {
		return err
	}

	values := map[string]interface{}(rec.Clone())
	delete(values, IDColumn)

	result := tx.Table(table).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return nil
}

// Get loads a row by id.
func (s *GormStore) Get(ctx context.Context, table string, id uint) (Record, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var row map[string]interface{}
	err = tx.Table(table).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return Record(row), nil
}

// FindID returns the id of the first row where column equals value.
func (s *GormStore) FindID(ctx context.Context, table, column string, value any) (uint, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	var ids []uint
	err = tx.Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Order("id ASC").
		Limit(1).
		Pluck(IDColumn, &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%s %s=%v: %w", table, column, value, ErrNotFound)
	}
	return ids[0], nil
}

// Pluck returns column values for rows matching where.
func (s *GormStore) Pluck(ctx context.Context, table, column string, where Record) ([]uint, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	query := tx.Table(table)
	if len(where) > 0 {
		query = query.Where(map[string]interface{}(where))
	}

	ids := []uint{}
	if err := query.Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ShowClipIDs joins both link tables and the clip table in one query.
func (s *GormStore) ShowClipIDs(ctx context.Context, showID uint) ([]uint, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	ids := []uint{}
	if err := tx.Raw(showClipIDsQuery, showID).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Commit finishes the current transaction, if any.
func (s *GormStore) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit().Error
	s.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards the current transaction, if any.
func (s *GormStore) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback().Error
	s.tx = nil
	// A cancelled context has already rolled the transaction back.
	if err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// translateError maps SQLite constraint failures onto store errors while
// keeping the driver error in the chain.
func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
	}
	return err
}

var (
	_ RecordStore    = (*GormStore)(nil)
	_ ShowClipJoiner = (*GormStore)(nil)
)
