package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/mrlokans/clipcatalog/internal/store"
)

// Column names shared by several tables.
const (
	ColumnName = "name"
)

// setString copies a column into dst if the record carries it.
func setString(rec store.Record, column string, dst *string) error {
	v, ok := rec[column]
	if !ok {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", column, err)
	}
	*dst = s
	return nil
}

// setTime copies a nullable timestamp column into dst. Null and empty
// values clear it.
func setTime(rec store.Record, column string, dst **time.Time) error {
	v, ok := rec[column]
	if !ok {
		return nil
	}
	if v == nil {
		*dst = nil
		return nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		*dst = nil
		return nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", column, err)
	}
	*dst = &t
	return nil
}

// setID copies a reference column into dst. Null clears it.
func setID(rec store.Record, column string, dst *uint) error {
	v, ok := rec[column]
	if !ok {
		return nil
	}
	if v == nil {
		*dst = 0
		return nil
	}
	id, err := cast.ToUintE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", column, err)
	}
	*dst = id
	return nil
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// ParseID converts an external id value (string, number) into an id.
func ParseID(v any) (uint, error) {
	if v == nil {
		return 0, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return cast.ToUintE(v)
}

// FormatValue renders a column value for text output.
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "<nil>"
	case time.Time:
		return value.Format(time.RFC3339)
	case *time.Time:
		if value == nil {
			return "<nil>"
		}
		return value.Format(time.RFC3339)
	default:
		return fmt.Sprint(value)
	}
}

// describe renders TypeName_id<v1, v2, ...> with values in column order.
func describe(typeName string, id uint, columns []string, rec store.Record) string {
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		values = append(values, FormatValue(rec[column]))
	}
	return fmt.Sprintf("%s_%d<%s>", typeName, id, strings.Join(values, ", "))
}
