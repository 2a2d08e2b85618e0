package sqlspec

import "fmt"

// Record is one entity instance bound to a schema. Records decoded by the
// store carry a snapshot of their encoded column values; Update diffs
// against that snapshot to write only the fields that changed.
type Record struct {
	schema   *Schema
	values   map[string]any
	snapshot map[string]any
}

// NewRecord returns an empty record for a schema. Records built this way
// carry no snapshot: updating them inserts a fresh row.
func NewRecord(schema *Schema) *Record {
	return &Record{
		schema: schema,
		values: make(map[string]any, len(schema.fields)),
	}
}

// Schema returns the entity descriptor this record is bound to.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the current value of a field.
func (r *Record) Get(name string) any { return r.values[name] }

// Set assigns the current value of a field.
func (r *Record) Set(name string, value any) { r.values[name] = value }

// Key returns the value of the identity field.
func (r *Record) Key() any { return r.values[r.schema.key] }

// Loaded reports whether the record was decoded through the store and
// therefore carries a change snapshot.
func (r *Record) Loaded() bool { return r.snapshot != nil }

// encoded converts every current field value through its column codec.
func (r *Record) encoded() (map[string]any, error) {
	encoded := make(map[string]any, len(r.schema.fields))
	for _, field := range r.schema.fields {
		value, err := field.Column.Encode(r.values[field.Name])
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", r.schema.table, field.Name, err)
		}
		encoded[field.Name] = value
	}
	return encoded, nil
}

// changed returns the names of fields whose current encoded value differs
// from the snapshot, in schema order, along with all encoded values.
func (r *Record) changed() ([]string, map[string]any, error) {
	encoded, err := r.encoded()
	if err != nil {
		return nil, nil, err
	}
	var names []string
	for _, field := range r.schema.fields {
		if encoded[field.Name] != r.snapshot[field.Name] {
			names = append(names, field.Name)
		}
	}
	return names, encoded, nil
}

// resetSnapshot records encoded values as the new baseline after a write.
func (r *Record) resetSnapshot(encoded map[string]any) {
	snapshot := make(map[string]any, len(encoded))
	for name, value := range encoded {
		snapshot[name] = value
	}
	r.snapshot = snapshot
}
