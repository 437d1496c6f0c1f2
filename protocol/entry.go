package protocol

import (
	"bytes"
	"fmt"
	"strconv"
)

// Well-known field names. The double-underscore fields are synthesized on
// the read side and never submitted.
const (
	FieldMessage            = "MESSAGE"
	FieldPriority           = "PRIORITY"
	FieldSourceRealtime     = "_SOURCE_REALTIME_TIMESTAMP"
	FieldRealtimeTimestamp  = "__REALTIME_TIMESTAMP"
	FieldMonotonicTimestamp = "__MONOTONIC_TIMESTAMP"
	FieldCursor             = "__CURSOR"
)

// Field is a single named value on an entry.
type Field struct {
	Name  string
	Value []byte
}

func (f Field) String() string {
	return fmt.Sprintf("%s=%q", f.Name, f.Value)
}

// Entry is one structured log record: an ordered sequence of fields.
// Duplicate names are permitted; the daemon treats them as multi-valued.
// Fields are appended during construction and the entry is handed off to a
// writer once built.
type Entry struct {
	fields []Field
}

// NewEntry returns a new, empty Entry.
func NewEntry() *Entry {
	return &Entry{}
}

// Append adds a field to the entry, preserving insertion order. The name is
// validated here so an invalid field is rejected before it reaches the
// encoder.
func (e *Entry) Append(name string, value []byte) error {
	if err := ValidateFieldName(name); err != nil {
		return err
	}
	e.fields = append(e.fields, Field{Name: name, Value: value})
	return nil
}

// AppendString adds a string-valued field to the entry.
func (e *Entry) AppendString(name, value string) error {
	return e.Append(name, []byte(value))
}

// Fields returns the entry's fields in insertion order.
func (e *Entry) Fields() []Field {
	return e.fields
}

// Len returns the number of fields on the entry.
func (e *Entry) Len() int {
	return len(e.fields)
}

// Get returns the value of the first field named name.
func (e *Entry) Get(name string) ([]byte, bool) {
	for _, f := range e.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString returns the value of the first field named name as a string.
func (e *Entry) GetString(name string) (string, bool) {
	v, ok := e.Get(name)
	if !ok {
		return "", false
	}
	return string(v), true
}

// Message returns the entry's MESSAGE field.
func (e *Entry) Message() (string, bool) {
	return e.GetString(FieldMessage)
}

// Cursor returns the opaque cursor string attached to entries produced by a
// reader.
func (e *Entry) Cursor() (string, bool) {
	return e.GetString(FieldCursor)
}

// RealtimeTimestamp returns the wall-clock time of the entry in
// microseconds, preferring the source timestamp over the reception
// timestamp.
func (e *Entry) RealtimeTimestamp() (int64, bool) {
	if us, ok := e.usecField(FieldSourceRealtime); ok {
		return us, true
	}
	return e.usecField(FieldRealtimeTimestamp)
}

// MonotonicTimestamp returns the monotonic clock reading of the entry in
// microseconds.
func (e *Entry) MonotonicTimestamp() (int64, bool) {
	return e.usecField(FieldMonotonicTimestamp)
}

func (e *Entry) usecField(name string) (int64, bool) {
	v, ok := e.GetString(name)
	if !ok {
		return 0, false
	}
	us, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return us, true
}

func (e *Entry) String() string {
	var b bytes.Buffer
	b.WriteString("Entry{")
	for i, f := range e.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString("}")
	return b.String()
}
