// Package sqlspec maps declared entity schemas onto SQLite rows.
//
// Entities are described once per kind by a Schema of named typed columns.
// The Store derives table DDL, inserts, point lookups, and minimal-diff
// updates from that description; callers never write SQL for entity access.
package sqlspec

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Column is the encode/decode strategy for one field's storage
// representation.
type Column interface {
	// SQLType returns the SQLite column type for DDL.
	SQLType() string
	// Encode converts a domain value into a driver-storable value.
	Encode(value any) (any, error)
	// Decode converts a stored value back into a domain value.
	Decode(value any) (any, error)
}

// Kind names a declared semantic type resolvable through the registry.
type Kind string

const (
	KindText Kind = "text"
	KindInt  Kind = "int"
	KindBool Kind = "bool"
	KindTime Kind = "unixtime"
)

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Column{
		KindText: Text(),
		KindInt:  Integer(),
		KindBool: Boolean(),
		KindTime: UnixTime(),
	}
)

// Register adds or replaces the column codec for a semantic kind.
func Register(kind Kind, column Column) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = column
}

// Resolve returns the column codec for a semantic kind. Unregistered kinds
// degrade to raw text storage with a diagnostic rather than failing.
func Resolve(kind Kind) Column {
	registryMu.RLock()
	column, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		log.Warn().Str("kind", string(kind)).Msg("unsupported column kind stored as text")
		return Text()
	}
	return column
}

// Text returns a TEXT column storing plain strings.
func Text() Column { return textColumn{} }

// Integer returns an INTEGER column storing int64 values.
func Integer() Column { return integerColumn{} }

// Boolean returns an INTEGER column storing booleans as 0/1.
func Boolean() Column { return booleanColumn{} }

// UnixTime returns an INTEGER column storing timestamps as unix seconds.
// The zero time is stored as 0 and loads back as the zero time.
func UnixTime() Column { return timeColumn{} }

// PrimaryKey marks a column as the entity identity. Exactly one field per
// schema must carry it.
func PrimaryKey(inner Column) Column { return keyColumn{inner} }

// ListOf composes list encoding around an inner codec: a sequence is
// stored as one TEXT column of encoded elements joined by sep. The empty
// sequence is stored as the empty string. Element values must never
// contain the separator; callers sanitize free text before storage.
func ListOf(inner Column, sep string) Column {
	return listColumn{inner: inner, sep: sep}
}

// CSV is a comma-delimited list column, reserved for identifier lists.
func CSV(inner Column) Column { return ListOf(inner, ",") }

// TSV is a tab-delimited list column, reserved for free-text lists.
func TSV(inner Column) Column { return ListOf(inner, "\t") }

type textColumn struct{}

func (textColumn) SQLType() string { return "TEXT" }

func (textColumn) Encode(value any) (any, error) {
	return coerceString(value), nil
}

func (textColumn) Decode(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	return coerceString(value), nil
}

type integerColumn struct{}

func (integerColumn) SQLType() string { return "INTEGER" }

func (integerColumn) Encode(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return nil, fmt.Errorf("encode integer: unsupported value %T", value)
	}
}

func (integerColumn) Decode(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return int64(0), nil
	case int64:
		return v, nil
	default:
		return nil, fmt.Errorf("decode integer: unsupported value %T", value)
	}
}

type booleanColumn struct{}

func (booleanColumn) SQLType() string { return "INTEGER" }

func (booleanColumn) Encode(value any) (any, error) {
	v, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("encode boolean: unsupported value %T", value)
	}
	if v {
		return int64(1), nil
	}
	return int64(0), nil
}

func (booleanColumn) Decode(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case int64:
		return v != 0, nil
	default:
		return nil, fmt.Errorf("decode boolean: unsupported value %T", value)
	}
}

type timeColumn struct{}

func (timeColumn) SQLType() string { return "INTEGER" }

func (timeColumn) Encode(value any) (any, error) {
	v, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("encode unixtime: unsupported value %T", value)
	}
	if v.IsZero() {
		return int64(0), nil
	}
	return v.UTC().Unix(), nil
}

func (timeColumn) Decode(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case int64:
		if v <= 0 {
			return time.Time{}, nil
		}
		return time.Unix(v, 0).UTC(), nil
	default:
		return nil, fmt.Errorf("decode unixtime: unsupported value %T", value)
	}
}

type keyColumn struct {
	Column
}

func (keyColumn) identity() {}

// isIdentity reports whether a column carries the primary key marker.
func isIdentity(column Column) bool {
	_, ok := column.(interface{ identity() })
	return ok
}

type listColumn struct {
	inner Column
	sep   string
}

func (listColumn) SQLType() string { return "TEXT" }

func (c listColumn) Encode(value any) (any, error) {
	var elements []string
	switch v := value.(type) {
	case nil:
		return "", nil
	case []string:
		elements = v
	default:
		return nil, fmt.Errorf("encode list: unsupported value %T", value)
	}
	if len(elements) == 0 {
		return "", nil
	}
	encoded := make([]string, 0, len(elements))
	for _, element := range elements {
		raw, err := c.inner.Encode(element)
		if err != nil {
			return nil, fmt.Errorf("encode list element: %w", err)
		}
		encoded = append(encoded, coerceString(raw))
	}
	return strings.Join(encoded, c.sep), nil
}

func (c listColumn) Decode(value any) (any, error) {
	joined := coerceString(value)
	if joined == "" {
		return []string{}, nil
	}
	parts := strings.Split(joined, c.sep)
	elements := make([]string, 0, len(parts))
	for _, part := range parts {
		decoded, err := c.inner.Decode(part)
		if err != nil {
			return nil, fmt.Errorf("decode list element: %w", err)
		}
		elements = append(elements, coerceString(decoded))
	}
	return elements, nil
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
