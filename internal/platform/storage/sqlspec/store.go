package sqlspec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a point lookup matched no row.
var ErrNotFound = errors.New("sqlspec: entity not found")

// ErrDuplicateKey reports an insert collision on the identity field.
var ErrDuplicateKey = errors.New("sqlspec: duplicate key")

// Store performs entity persistence over one injected SQLite handle.
// database/sql owns connection reuse; the store never shares transactions
// across entities.
type Store struct {
	sqlDB *sql.DB
	log   zerolog.Logger
}

// New wraps an existing database handle.
func New(sqlDB *sql.DB, logger zerolog.Logger) *Store {
	return &Store{sqlDB: sqlDB, log: logger}
}

// Open opens a SQLite store at path with WAL-mode defaults.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return New(sqlDB, logger), nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB exposes the underlying handle for callers that need raw access.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// EnsureTable creates the entity table if it does not exist. Safe to call
// repeatedly.
func (s *Store) EnsureTable(ctx context.Context, schema *Schema) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if schema == nil {
		return fmt.Errorf("schema is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, schema.createSQL()); err != nil {
		return fmt.Errorf("ensure table %s: %w", schema.Table(), err)
	}
	return nil
}

// Insert writes every field of the record as a new row.
func (s *Store) Insert(ctx context.Context, record *Record) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	schema := record.Schema()
	encoded, err := record.encoded()
	if err != nil {
		return err
	}

	names := schema.columnNames()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, encoded[name])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		schema.Table(), strings.Join(names, ", "), placeholders,
	)
	if _, err := s.sqlDB.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("insert %s %v: %w", schema.Table(), record.Key(), ErrDuplicateKey)
		}
		return fmt.Errorf("insert %s: %w", schema.Table(), err)
	}

	record.resetSnapshot(encoded)
	return nil
}

// FindAll returns a lazy, restartable sequence of records matching every
// equality filter. Re-ranging the sequence re-runs the query. Each yielded
// record carries a snapshot for later diff updates.
func (s *Store) FindAll(ctx context.Context, schema *Schema, filters map[string]any) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		query, args, err := s.selectSQL(schema, filters)
		if err != nil {
			yield(nil, err)
			return
		}

		rows, err := s.sqlDB.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("query %s: %w", schema.Table(), err))
			return
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			record, err := scanRecord(schema, rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate %s: %w", schema.Table(), err))
		}
	}
}

// FindOne performs a point lookup expected to match exactly one row and
// returns ErrNotFound otherwise.
func (s *Store) FindOne(ctx context.Context, schema *Schema, filters map[string]any) (*Record, error) {
	var found *Record
	for record, err := range s.FindAll(ctx, schema, filters) {
		if err != nil {
			return nil, err
		}
		if found != nil {
			return nil, fmt.Errorf("find %s: %w", schema.Table(), ErrNotFound)
		}
		found = record
	}
	if found == nil {
		return nil, fmt.Errorf("find %s: %w", schema.Table(), ErrNotFound)
	}
	return found, nil
}

// Update writes the fields that changed since the record was loaded. A
// record that was never loaded is inserted instead. When nothing changed
// no statement is issued at all.
func (s *Store) Update(ctx context.Context, record *Record) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !record.Loaded() {
		return s.Insert(ctx, record)
	}

	schema := record.Schema()
	names, encoded, err := record.changed()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		sets = append(sets, name+" = ?")
		args = append(args, encoded[name])
	}
	args = append(args, encoded[schema.Key()])

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		schema.Table(), strings.Join(sets, ", "), schema.Key(),
	)
	if _, err := s.sqlDB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s %v: %w", schema.Table(), record.Key(), err)
	}

	record.resetSnapshot(encoded)
	return nil
}

func (s *Store) selectSQL(schema *Schema, filters map[string]any) (string, []any, error) {
	if s == nil || s.sqlDB == nil {
		return "", nil, fmt.Errorf("storage is not configured")
	}
	if schema == nil {
		return "", nil, fmt.Errorf("schema is required")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(schema.columnNames(), ", "), schema.Table())
	if len(filters) == 0 {
		return query, nil, nil
	}

	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	predicates := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		column, ok := schema.column(name)
		if !ok {
			return "", nil, fmt.Errorf("filter %s: no such field in %s", name, schema.Table())
		}
		value, err := column.Encode(filters[name])
		if err != nil {
			return "", nil, fmt.Errorf("encode filter %s.%s: %w", schema.Table(), name, err)
		}
		predicates = append(predicates, name+" = ?")
		args = append(args, value)
	}
	return query + " WHERE " + strings.Join(predicates, " AND "), args, nil
}

func scanRecord(schema *Schema, rows *sql.Rows) (*Record, error) {
	fields := schema.Fields()
	raw := make([]any, len(fields))
	dest := make([]any, len(fields))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", schema.Table(), err)
	}

	record := NewRecord(schema)
	for i, field := range fields {
		value, err := field.Column.Decode(raw[i])
		if err != nil {
			return nil, fmt.Errorf("decode %s.%s: %w", schema.Table(), field.Name, err)
		}
		record.Set(field.Name, value)
	}

	// Snapshot the canonical re-encoding rather than the scanned bytes so
	// diffs compare like with like.
	encoded, err := record.encoded()
	if err != nil {
		return nil, err
	}
	record.resetSnapshot(encoded)
	return record, nil
}

// isDuplicateKeyError reports whether an insert failed on the identity
// column's uniqueness.
func isDuplicateKeyError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed") ||
		strings.Contains(value, "constraint violation")
}
