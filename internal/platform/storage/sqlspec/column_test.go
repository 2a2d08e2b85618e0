package sqlspec

import (
	"testing"
	"time"
)

func TestTextRoundTrip(t *testing.T) {
	column := Text()
	encoded, err := column.Encode("hello")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != "hello" {
		t.Fatalf("expected hello, got %v", decoded)
	}
}

func TestTextDecodeBytes(t *testing.T) {
	decoded, err := Text().Decode([]byte("stored"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != "stored" {
		t.Fatalf("expected stored, got %v", decoded)
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	column := Integer()
	encoded, err := column.Encode(42)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != int64(42) {
		t.Fatalf("expected int64 42, got %T %v", encoded, encoded)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != int64(42) {
		t.Fatalf("expected 42, got %v", decoded)
	}
}

func TestBooleanRoundTrip(t *testing.T) {
	column := Boolean()
	for _, value := range []bool{true, false} {
		encoded, err := column.Encode(value)
		if err != nil {
			t.Fatalf("encode %v: %v", value, err)
		}
		decoded, err := column.Decode(encoded)
		if err != nil {
			t.Fatalf("decode %v: %v", value, err)
		}
		if decoded != value {
			t.Fatalf("expected %v, got %v", value, decoded)
		}
	}
}

func TestUnixTimeRoundTrip(t *testing.T) {
	column := UnixTime()
	moment := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	encoded, err := column.Encode(moment)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.(time.Time).Equal(moment) {
		t.Fatalf("expected %v, got %v", moment, decoded)
	}
}

func TestUnixTimeZeroRoundTrip(t *testing.T) {
	column := UnixTime()
	encoded, err := column.Encode(time.Time{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != int64(0) {
		t.Fatalf("expected 0, got %v", encoded)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.(time.Time).IsZero() {
		t.Fatalf("expected zero time, got %v", decoded)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	column := CSV(Text())
	encoded, err := column.Encode([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != "a,b,c" {
		t.Fatalf("expected a,b,c got %v", encoded)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	values := decoded.([]string)
	if len(values) != 3 || values[0] != "a" || values[1] != "b" || values[2] != "c" {
		t.Fatalf("unexpected decode: %v", values)
	}
}

func TestListEmptyRoundTrip(t *testing.T) {
	for _, column := range []Column{CSV(Text()), TSV(Text())} {
		encoded, err := column.Encode([]string{})
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if encoded != "" {
			t.Fatalf("expected empty string, got %q", encoded)
		}
		decoded, err := column.Decode(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if values := decoded.([]string); len(values) != 0 {
			t.Fatalf("expected empty list, got %v", values)
		}
	}
}

func TestTSVKeepsCommas(t *testing.T) {
	column := TSV(Text())
	encoded, err := column.Encode([]string{"soup, hot", "salad"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := column.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	values := decoded.([]string)
	if len(values) != 2 || values[0] != "soup, hot" {
		t.Fatalf("unexpected decode: %v", values)
	}
}

func TestResolveFallsBackToText(t *testing.T) {
	column := Resolve(Kind("blob-of-mystery"))
	if column.SQLType() != "TEXT" {
		t.Fatalf("expected TEXT fallback, got %s", column.SQLType())
	}
}

func TestResolveRegisteredKinds(t *testing.T) {
	cases := map[Kind]string{
		KindText: "TEXT",
		KindInt:  "INTEGER",
		KindBool: "INTEGER",
		KindTime: "INTEGER",
	}
	for kind, want := range cases {
		if got := Resolve(kind).SQLType(); got != want {
			t.Fatalf("%s: expected %s, got %s", kind, want, got)
		}
	}
}

func TestPrimaryKeyKeepsCodec(t *testing.T) {
	column := PrimaryKey(Text())
	if !isIdentity(column) {
		t.Fatal("expected identity marker")
	}
	encoded, err := column.Encode("key-1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != "key-1" {
		t.Fatalf("expected pass-through encode, got %v", encoded)
	}
}
