package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/logging"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// ErrNoIdentifier is returned when an entity has neither an id nor a name
// that could locate its row.
var ErrNoIdentifier = errors.New("no valid id")

// Catalog performs entity operations against an injected store.
type Catalog struct {
	store     store.RecordStore
	validator *validator.Validate
	log       logrus.FieldLogger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a catalog on top of st.
func New(st store.RecordStore, opts ...Option) *Catalog {
	c := &Catalog{
		store:     st,
		validator: newValidator(),
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying record store.
func (c *Catalog) Store() store.RecordStore {
	return c.store
}

// Save inserts e when it has no id yet and assigns the new id, otherwise
// it overwrites the stored row with every column of e. Names are required
// because they back a unique index and an empty string cannot stand in for
// NULL. Strings must be valid UTF-8 without characters XML cannot carry.
// Violations return a *ValidationError and nothing is written.
func (c *Catalog) Save(ctx context.Context, e Entity) error {
	if err := c.validate(e); err != nil {
		return err
	}

	table := e.TableName()
	rec := e.ToMap()

	if id := e.Identifier(); id != 0 {
		if err := c.store.Update(ctx, table, id, rec); err != nil {
			return fmt.Errorf("update %s %d: %w", table, id, err)
		}
		c.log.WithFields(logrus.Fields{"table": table, "id": id}).Debug("updated row")
		return nil
	}

	id, err := c.store.Insert(ctx, table, rec)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	e.SetIdentifier(id)
	c.log.WithFields(logrus.Fields{"table": table, "id": id}).Debug("inserted row")
	return nil
}

// Fetch loads every field of e from its stored row, including the id.
// Without an id the row is located by name. A missing row yields
// store.ErrNotFound and leaves e unchanged.
func (c *Catalog) Fetch(ctx context.Context, e Entity) error {
	id, err := c.resolveID(ctx, e)
	if err != nil {
		return err
	}

	rec, err := c.store.Get(ctx, e.TableName(), id)
	if err != nil {
		return err
	}
	return apply(e, rec)
}

// Sync reloads e from the store like Fetch, except that a missing row is
// not an error: e is simply left as it was.
func (c *Catalog) Sync(ctx context.Context, e Entity) error {
	err := c.Fetch(ctx, e)
	if errors.Is(err, store.ErrNotFound) {
		c.log.WithFields(logrus.Fields{
			"table": e.TableName(),
			"id":    e.Identifier(),
		}).Debug("sync found no row, keeping in-memory state")
		return nil
	}
	return err
}

// Commit makes all pending writes durable.
func (c *Catalog) Commit(ctx context.Context) error {
	return c.store.Commit(ctx)
}

// Rollback discards writes made since the last Commit.
func (c *Catalog) Rollback(ctx context.Context) error {
	return c.store.Rollback(ctx)
}

// Close discards uncommitted writes. It is meant to be deferred.
func (c *Catalog) Close(ctx context.Context) {
	if err := c.store.Rollback(ctx); err != nil {
		c.log.WithError(err).Warn("rollback on close failed")
	}
}

func (c *Catalog) resolveID(ctx context.Context, e Entity) (uint, error) {
	if id := e.Identifier(); id != 0 {
		return id, nil
	}

	name := e.LookupName()
	if name == "" {
		return 0, fmt.Errorf("%s: %w", e.TableName(), ErrNoIdentifier)
	}

	id, err := c.store.FindID(ctx, e.TableName(), entities.ColumnName, name)
	if err != nil {
		return 0, fmt.Errorf("find %s by name %q: %w", e.TableName(), name, err)
	}
	return id, nil
}

// apply overwrites e with a stored row.
func apply(e Entity, rec store.Record) error {
	if err := e.FromMap(rec); err != nil {
		return fmt.Errorf("load %s: %w", e.TableName(), err)
	}
	if raw, ok := rec[store.IDColumn]; ok {
		id, err := entities.ParseID(raw)
		if err != nil {
			return fmt.Errorf("load %s id: %w", e.TableName(), err)
		}
		e.SetIdentifier(id)
	}
	return nil
}

// Factory opens a catalog for one unit of work. Callers Close it when done.
type Factory func() *Catalog
