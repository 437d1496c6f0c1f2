// Package journal submits structured log entries to the local journal
// daemon and reads stored entries back. Submission encodes an ordered field
// set into the daemon's wire format and delivers it over the submission
// socket, falling back to a sealed-memory handoff for oversized payloads.
// Read-back wraps the daemon's native cursor with seek, step, match and
// field-extraction operations.
package journal

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrJournalUnavailable is returned when the daemon's stored entries cannot
// be accessed, for example because the storage is absent or permission was
// denied.
var ErrJournalUnavailable = errors.New("journal unavailable")

// ErrFieldAbsent is returned by field queries when the current entry lacks
// the requested field. Fields are sparse across entry types, so absence is
// an expected outcome rather than a failure.
var ErrFieldAbsent = errors.New("field not present on entry")

// ErrUseAfterClose is returned by any operation on a closed handle. It
// indicates a caller bug and is not recoverable.
var ErrUseAfterClose = errors.New("use after close")

// ErrNoCurrentEntry is returned by field queries when the cursor is not
// positioned at an entry, either before any step succeeded or after
// stepping past a boundary.
var ErrNoCurrentEntry = errors.New("no entry under the cursor")

// Priority is the syslog-compatible priority of an entry, submitted as the
// PRIORITY field.
type Priority int

const (
	PriEmerg Priority = iota
	PriAlert
	PriCrit
	PriErr
	PriWarning
	PriNotice
	PriInfo
	PriDebug
)

func (p Priority) String() string {
	return strconv.Itoa(int(p))
}
