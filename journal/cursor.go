package journal

import (
	"time"

	"github.com/jeffrom/journald/protocol"
)

// WakeupType describes why a Wait returned.
type WakeupType int

const (
	// WakeupNop means nothing changed before the timeout elapsed.
	WakeupNop WakeupType = iota
	// WakeupAppend means entries were appended to the journal.
	WakeupAppend
	// WakeupInvalidate means journal files were added or removed and any
	// held positions may be stale.
	WakeupInvalidate
)

// Cursor is the daemon's native read-side API: an opaque position into the
// stored entry sequence, advanced by step operations. The daemon owns the
// cursor; this interface is the narrow capability surface the library wraps
// and never reimplements. The production implementation binds the system
// journal; tests substitute an in-memory one.
//
// A Cursor holds a single logical position and is not safe for concurrent
// use.
type Cursor interface {
	// SeekHead positions the cursor before the first stored entry.
	SeekHead() error
	// SeekTail positions the cursor after the last stored entry.
	SeekTail() error
	// SeekCursor positions the cursor before the entry identified by an
	// opaque cursor token previously obtained from GetCursor, so the next
	// step forward lands on that entry.
	SeekCursor(token string) error

	// Next and Previous step the cursor by one entry. They return false at
	// either boundary; the boundary is a terminal signal, not an error.
	Next() (bool, error)
	Previous() (bool, error)

	// GetData returns the raw value of the named field on the current
	// entry, or ErrFieldAbsent.
	GetData(field string) ([]byte, error)
	// RestartData resets field enumeration for the current entry.
	RestartData()
	// EnumerateData returns the next field of the current entry. ok is
	// false once all fields have been returned.
	EnumerateData() (f protocol.Field, ok bool, err error)

	// GetRealtimeUsec and GetMonotonicUsec return the current entry's
	// timestamps in microseconds.
	GetRealtimeUsec() (uint64, error)
	GetMonotonicUsec() (uint64, error)
	// GetCursor returns an opaque token identifying the current entry.
	GetCursor() (string, error)

	// AddMatch constrains subsequent steps to entries carrying the exact
	// field value. Consecutive matches conjoin; AddDisjunction starts an
	// alternative group. FlushMatches removes all installed matches.
	AddMatch(field string, value []byte) error
	AddDisjunction() error
	FlushMatches() error

	// Wait blocks until the journal changes or the timeout elapses. A
	// negative timeout waits indefinitely.
	Wait(timeout time.Duration) (WakeupType, error)

	// Close releases the daemon-side resources backing the cursor.
	Close() error
}
