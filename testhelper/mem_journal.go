package testhelper

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jeffrom/journald/journal"
	"github.com/jeffrom/journald/protocol"
)

var errCursorClosed = errors.New("cursor closed")

type storedEntry struct {
	entry     *protocol.Entry
	realtime  uint64
	monotonic uint64
	token     string
}

// MemJournal is an in-memory stand-in for the daemon's stored entry
// sequence. Entries are kept in arrival order and read through cursors
// implementing journal.Cursor.
type MemJournal struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries []storedEntry
	seq     uint64
}

// NewMemJournal returns an empty in-memory journal.
func NewMemJournal() *MemJournal {
	m := &MemJournal{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Append stores an entry at the end of the sequence and wakes any waiting
// cursors.
func (m *MemJournal) Append(e *protocol.Entry) {
	m.mu.Lock()
	m.seq++
	m.entries = append(m.entries, storedEntry{
		entry:     e,
		realtime:  uint64(time.Now().UnixNano() / 1000),
		monotonic: m.seq * 1000,
		token:     fmt.Sprintf("mem-%d", m.seq),
	})
	m.mu.Unlock()
	m.cond.Broadcast()
}

// Len returns the number of stored entries.
func (m *MemJournal) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns the stored entries in arrival order.
func (m *MemJournal) Entries() []*protocol.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	es := make([]*protocol.Entry, len(m.entries))
	for i, se := range m.entries {
		es[i] = se.entry
	}
	return es
}

// OpenCursor returns a new cursor positioned before the first entry. Each
// cursor has its own position; all share the stored sequence.
func (m *MemJournal) OpenCursor() journal.Cursor {
	return &memCursor{m: m, pos: -1}
}

// memCursor implements journal.Cursor over a MemJournal. pos is -1 before
// the start and the current entry's index otherwise. The after-end state is
// tracked separately: atEnd remembers how many entries existed when the
// cursor stepped past the tail, so entries appended while it sits there
// become reachable by further Next calls instead of being skipped.
type memCursor struct {
	m       *MemJournal
	pos     int
	atEnd   bool
	enumIdx int
	matches *journal.MatchExpr
	closed  bool
}

func (c *memCursor) SeekHead() error {
	if c.closed {
		return errCursorClosed
	}
	c.pos = -1
	c.atEnd = false
	c.enumIdx = 0
	return nil
}

func (c *memCursor) SeekTail() error {
	if c.closed {
		return errCursorClosed
	}
	c.m.mu.Lock()
	c.pos = len(c.m.entries)
	c.m.mu.Unlock()
	c.atEnd = true
	c.enumIdx = 0
	return nil
}

func (c *memCursor) SeekCursor(token string) error {
	if c.closed {
		return errCursorClosed
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for i, se := range c.m.entries {
		if se.token == token {
			// before the entry, so the next forward step lands on it
			c.pos = i - 1
			c.atEnd = false
			c.enumIdx = 0
			return nil
		}
	}
	return errors.Errorf("cursor token not found: %q", token)
}

func (c *memCursor) Next() (bool, error) {
	if c.closed {
		return false, errCursorClosed
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	// resume at the first index not yet examined: after the current entry,
	// or at the remembered boundary when the cursor already stepped past
	// the tail
	next := c.pos + 1
	if c.atEnd {
		next = c.pos
	}
	for ; next < len(c.m.entries); next++ {
		if c.matchOK(c.m.entries[next].entry) {
			c.pos = next
			c.atEnd = false
			c.enumIdx = 0
			return true, nil
		}
	}
	c.pos = len(c.m.entries)
	c.atEnd = true
	return false, nil
}

func (c *memCursor) Previous() (bool, error) {
	if c.closed {
		return false, errCursorClosed
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for prev := c.pos - 1; prev >= 0; prev-- {
		if c.matchOK(c.m.entries[prev].entry) {
			c.pos = prev
			c.atEnd = false
			c.enumIdx = 0
			return true, nil
		}
	}
	c.pos = -1
	c.atEnd = false
	return false, nil
}

func (c *memCursor) matchOK(e *protocol.Entry) bool {
	if c.matches == nil {
		return true
	}
	return c.matches.Matches(e)
}

func (c *memCursor) current() (storedEntry, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.atEnd || c.pos < 0 || c.pos >= len(c.m.entries) {
		return storedEntry{}, journal.ErrNoCurrentEntry
	}
	return c.m.entries[c.pos], nil
}

func (c *memCursor) GetData(field string) ([]byte, error) {
	if c.closed {
		return nil, errCursorClosed
	}
	se, err := c.current()
	if err != nil {
		return nil, err
	}
	if v, ok := se.entry.Get(field); ok {
		return v, nil
	}
	return nil, journal.ErrFieldAbsent
}

func (c *memCursor) RestartData() {
	c.enumIdx = 0
}

func (c *memCursor) EnumerateData() (protocol.Field, bool, error) {
	if c.closed {
		return protocol.Field{}, false, errCursorClosed
	}
	se, err := c.current()
	if err != nil {
		return protocol.Field{}, false, err
	}
	fields := se.entry.Fields()
	if c.enumIdx >= len(fields) {
		return protocol.Field{}, false, nil
	}
	f := fields[c.enumIdx]
	c.enumIdx++
	return f, true, nil
}

func (c *memCursor) GetRealtimeUsec() (uint64, error) {
	se, err := c.current()
	if err != nil {
		return 0, err
	}
	return se.realtime, nil
}

func (c *memCursor) GetMonotonicUsec() (uint64, error) {
	se, err := c.current()
	if err != nil {
		return 0, err
	}
	return se.monotonic, nil
}

func (c *memCursor) GetCursor() (string, error) {
	se, err := c.current()
	if err != nil {
		return "", err
	}
	return se.token, nil
}

func (c *memCursor) AddMatch(field string, value []byte) error {
	if c.closed {
		return errCursorClosed
	}
	if c.matches == nil {
		c.matches = journal.NewMatch()
	}
	c.matches.And(field, value)
	return c.matches.Err()
}

func (c *memCursor) AddDisjunction() error {
	if c.closed {
		return errCursorClosed
	}
	if c.matches == nil {
		c.matches = journal.NewMatch()
	}
	c.matches.Or()
	return nil
}

func (c *memCursor) FlushMatches() error {
	if c.closed {
		return errCursorClosed
	}
	c.matches = nil
	return nil
}

func (c *memCursor) Wait(timeout time.Duration) (journal.WakeupType, error) {
	if c.closed {
		return journal.WakeupNop, errCursorClosed
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	known := len(c.m.entries)

	if timeout >= 0 {
		t := time.AfterFunc(timeout, c.m.cond.Broadcast)
		defer t.Stop()
		deadline := time.Now().Add(timeout)
		for len(c.m.entries) == known && time.Now().Before(deadline) {
			c.m.cond.Wait()
		}
	} else {
		for len(c.m.entries) == known {
			c.m.cond.Wait()
		}
	}

	if len(c.m.entries) > known {
		return journal.WakeupAppend, nil
	}
	return journal.WakeupNop, nil
}

func (c *memCursor) Close() error {
	if c.closed {
		return errCursorClosed
	}
	c.closed = true
	return nil
}
