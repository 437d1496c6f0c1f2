package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

var errMissingTerminator = errors.New("binary field missing terminator")

// EntryScanner reads fields back out of an encoded payload. The same format
// is produced by the encoder and accepted by the daemon, so the scanner is
// what the mock daemon and round-trip tests parse with.
type EntryScanner struct {
	br    *bufio.Reader
	field Field
	read  int
	err   error
}

// NewEntryScanner returns a new instance of a buffered entry scanner.
func NewEntryScanner(r io.Reader) *EntryScanner {
	return &EntryScanner{
		br: bufio.NewReaderSize(r, 1024*8),
	}
}

// Scan reads the next field from the payload. It returns false at the end
// of the payload or on a malformed field; Err distinguishes the two.
func (s *EntryScanner) Scan() bool {
	n, f, err := s.readField()
	s.read += n
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return false
	}
	s.field = f
	return true
}

// Field returns the most recently scanned field.
func (s *EntryScanner) Field() Field {
	return s.field
}

// Err returns the first malformed-payload or read error encountered.
func (s *EntryScanner) Err() error {
	return s.err
}

func (s *EntryScanner) readField() (int, Field, error) {
	line, err := s.br.ReadBytes('\n')
	n := len(line)
	if err == io.EOF && n == 0 {
		return n, Field{}, io.EOF
	}
	if err != nil {
		return n, Field{}, errors.Wrap(err, "reading field line failed")
	}
	line = line[:len(line)-1]

	if i := bytes.IndexByte(line, '='); i >= 0 {
		name := string(line[:i])
		if err := ValidateFieldName(name); err != nil {
			return n, Field{}, err
		}
		val := make([]byte, len(line)-i-1)
		copy(val, line[i+1:])
		return n, Field{Name: name, Value: val}, nil
	}

	// no '=' on the line: binary form, a little-endian length follows the
	// name
	name := string(line)
	if err := ValidateFieldName(name); err != nil {
		return n, Field{}, err
	}

	var lenbuf [8]byte
	nn, err := io.ReadFull(s.br, lenbuf[:])
	n += nn
	if err != nil {
		return n, Field{}, errors.Wrap(err, "reading field length failed")
	}
	size := binary.LittleEndian.Uint64(lenbuf[:])

	val := make([]byte, size)
	nn, err = io.ReadFull(s.br, val)
	n += nn
	if err != nil {
		return n, Field{}, errors.Wrap(err, "reading field value failed")
	}

	term, err := s.br.ReadByte()
	if err != nil {
		return n, Field{}, errors.Wrap(err, "reading field terminator failed")
	}
	n++
	if term != '\n' {
		return n, Field{}, errMissingTerminator
	}

	return n, Field{Name: name, Value: val}, nil
}

// DecodeEntry parses a full encoded payload back into an Entry.
func DecodeEntry(p []byte) (*Entry, error) {
	e := NewEntry()
	s := NewEntryScanner(bytes.NewReader(p))
	for s.Scan() {
		f := s.Field()
		e.fields = append(e.fields, f)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return e, nil
}
