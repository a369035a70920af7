package catalog

import (
	"fmt"

	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// DocumentOf returns the external document of e: its id plus every data column.
func DocumentOf(e Entity) external.Document {
	values := e.ToMap()
	values[store.IDColumn] = e.Identifier()
	return external.Document{
		Name:   e.TableName(),
		Fields: Fields(e),
		Values: values,
	}
}

// ToExternal renders e, including its id, in the given format.
func ToExternal(e Entity, format external.Format) ([]byte, error) {
	return external.Marshal(format, DocumentOf(e))
}

// FromExternal parses data and copies the id and known columns into e.
// Keys that are not columns of e are ignored.
func FromExternal(data []byte, format external.Format, e Entity) error {
	rec, err := external.Unmarshal(format, data)
	if err != nil {
		return err
	}
	return ApplyRecord(e, rec)
}

// ApplyRecord copies the id and known columns of rec into e. Columns that
// rec does not carry keep their current value.
func ApplyRecord(e Entity, rec store.Record) error {
	known := make(map[string]bool, len(e.Columns()))
	for _, column := range e.Columns() {
		known[column] = true
	}

	data := store.Record{}
	for k, v := range rec {
		if known[k] {
			data[k] = v
		}
	}
	if err := e.FromMap(data); err != nil {
		return fmt.Errorf("%s: %w", e.TableName(), err)
	}

	if raw, ok := rec[store.IDColumn]; ok {
		id, err := entities.ParseID(raw)
		if err != nil {
			return fmt.Errorf("%s id: %w", e.TableName(), err)
		}
		e.SetIdentifier(id)
	}
	return nil
}
