package protocol

// The daemon's native submission format encodes each field on its own,
// concatenated in entry order:
//
// NAME=VALUE\n
//
// is used when VALUE contains no newline byte. Otherwise the binary-safe
// form is used:
//
// NAME\n
// <64-bit little-endian length>
// VALUE\n
//
// Both forms may appear within a single payload. Field names are restricted
// to uppercase ASCII letters, digits and underscore, and must not begin with
// a digit. Values are arbitrary byte strings.

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyFieldName is returned when a field name is zero-length.
var ErrEmptyFieldName = errors.New("empty field name")

// InvalidFieldNameError is returned when a field name contains a byte
// outside the allowed character set or begins with a digit.
type InvalidFieldNameError string

func (e InvalidFieldNameError) Error() string {
	return fmt.Sprintf("invalid field name: %q", string(e))
}

// ValidateFieldName checks a field name against the daemon's restricted
// character set: uppercase ASCII letters, digits and underscore, not
// beginning with a digit.
func ValidateFieldName(name string) error {
	if name == "" {
		return ErrEmptyFieldName
	}
	if name[0] >= '0' && name[0] <= '9' {
		return InvalidFieldNameError(name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return InvalidFieldNameError(name)
		}
	}
	return nil
}
