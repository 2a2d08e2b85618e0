package sqlspec

import (
	"fmt"
	"strings"
)

// Field pairs a column name with its codec.
type Field struct {
	Name   string
	Column Column
}

// Schema describes one entity kind: its table, ordered fields, and the
// identity field. Schemas are static process-wide metadata, built once
// per entity kind and shared by every store operation.
type Schema struct {
	table  string
	fields []Field
	key    string
}

// NewSchema builds a schema from an ordered field list. Exactly one field
// must be marked with PrimaryKey.
func NewSchema(table string, fields ...Field) (*Schema, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %s: at least one field is required", table)
	}

	schema := &Schema{table: table, fields: make([]Field, 0, len(fields))}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, fmt.Errorf("schema %s: field name is required", table)
		}
		if field.Column == nil {
			return nil, fmt.Errorf("schema %s: field %s has no column", table, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %s", table, name)
		}
		seen[name] = struct{}{}
		if isIdentity(field.Column) {
			if schema.key != "" {
				return nil, fmt.Errorf("schema %s: multiple primary keys (%s, %s)", table, schema.key, name)
			}
			schema.key = name
		}
		schema.fields = append(schema.fields, Field{Name: name, Column: field.Column})
	}
	if schema.key == "" {
		return nil, fmt.Errorf("schema %s: a primary key field is required", table)
	}
	return schema, nil
}

// MustSchema builds a schema and panics on error. Intended for
// package-level entity descriptors.
func MustSchema(table string, fields ...Field) *Schema {
	schema, err := NewSchema(table, fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// Key returns the identity field name.
func (s *Schema) Key() string { return s.key }

// Fields returns the ordered field list.
func (s *Schema) Fields() []Field { return s.fields }

func (s *Schema) column(name string) (Column, bool) {
	for _, field := range s.fields {
		if field.Name == name {
			return field.Column, true
		}
	}
	return nil, false
}

func (s *Schema) columnNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, field := range s.fields {
		names = append(names, field.Name)
	}
	return names
}

func (s *Schema) createSQL() string {
	columns := make([]string, 0, len(s.fields))
	for _, field := range s.fields {
		definition := field.Name + " " + field.Column.SQLType()
		if field.Name == s.key {
			definition += " PRIMARY KEY"
		}
		columns = append(columns, definition)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.table, strings.Join(columns, ", "))
}
