package protocol

import (
	"bytes"
	"testing"
)

func TestEntryAppendOrder(t *testing.T) {
	e := NewEntry()
	if err := e.AppendString("MESSAGE", "hi"); err != nil {
		t.Fatalf("unexpected error appending field: %v", err)
	}
	if err := e.AppendString("PRIORITY", "6"); err != nil {
		t.Fatalf("unexpected error appending field: %v", err)
	}
	if err := e.Append("BLOB", []byte{0, 1, 2}); err != nil {
		t.Fatalf("unexpected error appending field: %v", err)
	}

	fields := e.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	expected := []string{"MESSAGE", "PRIORITY", "BLOB"}
	for i, name := range expected {
		if fields[i].Name != name {
			t.Errorf("expected field %d to be %s, got %s", i, name, fields[i].Name)
		}
	}
}

func TestEntryDuplicateFields(t *testing.T) {
	e := NewEntry()
	if err := e.AppendString("TAG", "one"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AppendString("TAG", "two"); err != nil {
		t.Fatalf("duplicate names must be permitted, got: %v", err)
	}

	if e.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", e.Len())
	}
	v, ok := e.Get("TAG")
	if !ok || !bytes.Equal(v, []byte("one")) {
		t.Fatalf("expected Get to return the first value, got %q (%v)", v, ok)
	}
}

func TestEntryRejectsInvalidName(t *testing.T) {
	e := NewEntry()
	if err := e.AppendString("9BAD", "x"); err == nil {
		t.Fatal("expected error appending digit-prefixed name")
	}
	if err := e.AppendString("", "x"); err != ErrEmptyFieldName {
		t.Fatalf("expected ErrEmptyFieldName, got: %v", err)
	}
	if e.Len() != 0 {
		t.Fatalf("rejected fields must not be added, have %d", e.Len())
	}
}

func TestEntryHelpers(t *testing.T) {
	e := NewEntry()
	if err := e.AppendString(FieldMessage, "it happened"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AppendString(FieldRealtimeTimestamp, "1500000000000000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AppendString(FieldMonotonicTimestamp, "12345"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AppendString(FieldCursor, "opaque-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg, ok := e.Message(); !ok || msg != "it happened" {
		t.Errorf("expected message, got %q (%v)", msg, ok)
	}
	if us, ok := e.RealtimeTimestamp(); !ok || us != 1500000000000000 {
		t.Errorf("expected realtime timestamp, got %d (%v)", us, ok)
	}
	if us, ok := e.MonotonicTimestamp(); !ok || us != 12345 {
		t.Errorf("expected monotonic timestamp, got %d (%v)", us, ok)
	}
	if token, ok := e.Cursor(); !ok || token != "opaque-token" {
		t.Errorf("expected cursor token, got %q (%v)", token, ok)
	}
}

func TestEntrySourceTimestampPreferred(t *testing.T) {
	e := NewEntry()
	if err := e.AppendString(FieldRealtimeTimestamp, "200"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AppendString(FieldSourceRealtime, "100"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if us, ok := e.RealtimeTimestamp(); !ok || us != 100 {
		t.Errorf("expected source timestamp to win, got %d (%v)", us, ok)
	}
}
