package sqlspec

import (
	"strings"
	"testing"
)

func TestNewSchemaRequiresPrimaryKey(t *testing.T) {
	_, err := NewSchema("games", Field{Name: "name", Column: Text()})
	if err == nil {
		t.Fatal("expected error for schema without primary key")
	}
}

func TestNewSchemaRejectsMultiplePrimaryKeys(t *testing.T) {
	_, err := NewSchema("games",
		Field{Name: "a", Column: PrimaryKey(Text())},
		Field{Name: "b", Column: PrimaryKey(Text())},
	)
	if err == nil {
		t.Fatal("expected error for schema with two primary keys")
	}
}

func TestNewSchemaRejectsDuplicateFields(t *testing.T) {
	_, err := NewSchema("games",
		Field{Name: "id", Column: PrimaryKey(Text())},
		Field{Name: "id", Column: Text()},
	)
	if err == nil {
		t.Fatal("expected error for duplicate field name")
	}
}

func TestNewSchemaRequiresTable(t *testing.T) {
	_, err := NewSchema("  ", Field{Name: "id", Column: PrimaryKey(Text())})
	if err == nil {
		t.Fatal("expected error for empty table name")
	}
}

func TestSchemaCreateSQL(t *testing.T) {
	schema := MustSchema("games",
		Field{Name: "id", Column: PrimaryKey(Text())},
		Field{Name: "players", Column: CSV(Text())},
		Field{Name: "decided", Column: Boolean()},
		Field{Name: "last_access", Column: UnixTime()},
	)
	if schema.Key() != "id" {
		t.Fatalf("expected key id, got %s", schema.Key())
	}
	got := schema.createSQL()
	want := "CREATE TABLE IF NOT EXISTS games (id TEXT PRIMARY KEY, players TEXT, decided INTEGER, last_access INTEGER)"
	if got != want {
		t.Fatalf("unexpected DDL:\n got %s\nwant %s", got, want)
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected panic for invalid schema")
		}
		if !strings.Contains(recovered.(error).Error(), "primary key") {
			t.Fatalf("unexpected panic: %v", recovered)
		}
	}()
	MustSchema("games", Field{Name: "name", Column: Text()})
}
