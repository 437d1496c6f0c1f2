package protocol

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// WriteTo serializes the entry into the daemon's submission format. All
// field names are validated before any bytes are written, so a failure
// produces no partial output.
func (e *Entry) WriteTo(w io.Writer) (int64, error) {
	for _, f := range e.fields {
		if err := ValidateFieldName(f.Name); err != nil {
			return 0, err
		}
	}

	var total int64
	for _, f := range e.fields {
		n, err := writeField(w, f)
		total += int64(n)
		if err != nil {
			return total, errors.Wrap(err, "writing field failed")
		}
	}
	return total, nil
}

// writeField emits one field in either the single-line text form or, when
// the value contains a newline byte, the length-prefixed binary form. The
// choice is per field as required by the wire format.
func writeField(w io.Writer, f Field) (int, error) {
	var buf bytes.Buffer
	if !bytes.ContainsRune(f.Value, '\n') {
		buf.WriteString(f.Name)
		buf.WriteByte('=')
		buf.Write(f.Value)
		buf.WriteByte('\n')
	} else {
		buf.WriteString(f.Name)
		buf.WriteByte('\n')
		var lenbuf [8]byte
		binary.LittleEndian.PutUint64(lenbuf[:], uint64(len(f.Value)))
		buf.Write(lenbuf[:])
		buf.Write(f.Value)
		buf.WriteByte('\n')
	}
	return w.Write(buf.Bytes())
}

// EncodeEntry serializes the entry, returning the payload bytes sent to the
// daemon's submission socket.
func EncodeEntry(e *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
