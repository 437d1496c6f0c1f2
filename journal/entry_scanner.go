package journal

import (
	"time"

	"github.com/jeffrom/journald/protocol"
)

// EntryScanner iterates a reader's entries in the forward direction. In
// follow mode it blocks for new entries at the tail instead of stopping.
type EntryScanner struct {
	r       *Reader
	entry   *protocol.Entry
	err     error
	follow  bool
	timeout time.Duration
}

// NewEntryScanner returns a scanner over r starting from its current
// position.
func NewEntryScanner(r *Reader) *EntryScanner {
	return &EntryScanner{r: r, timeout: -1}
}

// Scanner returns an EntryScanner over the reader starting from its current
// position.
func (r *Reader) Scanner() *EntryScanner {
	return NewEntryScanner(r)
}

// Follow makes the scanner wait for new entries when it reaches the end of
// the journal. A negative timeout waits indefinitely; otherwise a Scan at
// the tail returns false after the timeout elapses with nothing appended.
func (s *EntryScanner) Follow(timeout time.Duration) *EntryScanner {
	s.follow = true
	s.timeout = timeout
	return s
}

// Scan advances to the next entry. It returns false at the end of the
// journal (unless following) or on error; Err distinguishes the two.
func (s *EntryScanner) Scan() bool {
	e, err := s.r.NextEntry()
	if err != nil {
		s.err = err
		return false
	}
	for e == nil {
		if !s.follow {
			return false
		}
		wake, err := s.r.Wait(s.timeout)
		if err != nil {
			s.err = err
			return false
		}
		if wake == WakeupNop {
			return false
		}
		e, err = s.r.NextEntry()
		if err != nil {
			s.err = err
			return false
		}
	}
	s.entry = e
	return true
}

// Entry returns the most recently scanned entry.
func (s *EntryScanner) Entry() *protocol.Entry {
	return s.entry
}

// Err returns the first error encountered while scanning.
func (s *EntryScanner) Err() error {
	return s.err
}
