package journal

import (
	"strconv"
	"time"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/protocol"
)

// Reader iterates over stored journal entries through the daemon's cursor.
// Entries are visited in stored order. A Reader owns one logical cursor
// position and is not safe for concurrent use; open separate readers for
// concurrent iteration.
type Reader struct {
	conf    *config.Config
	cur     Cursor
	onEntry bool
	closed  bool
}

// Open acquires a handle to the live system journal. It fails with
// ErrJournalUnavailable when the daemon's storage cannot be accessed.
func Open(conf *config.Config) (*Reader, error) {
	if conf == nil {
		conf = config.Default
	}
	cur, err := openSystemCursor(conf)
	if err != nil {
		return nil, err
	}
	return NewReader(conf, cur), nil
}

// NewReader returns a Reader over an already-open cursor.
func NewReader(conf *config.Config, cur Cursor) *Reader {
	if conf == nil {
		conf = config.Default
	}
	return &Reader{conf: conf, cur: cur}
}

// SeekHead positions the reader before the first stored entry, so the next
// call to Next returns the first entry.
func (r *Reader) SeekHead() error {
	if r.closed {
		return ErrUseAfterClose
	}
	r.onEntry = false
	return r.cur.SeekHead()
}

// SeekTail positions the reader after the last stored entry, so the next
// call to Previous returns the last entry.
func (r *Reader) SeekTail() error {
	if r.closed {
		return ErrUseAfterClose
	}
	r.onEntry = false
	return r.cur.SeekTail()
}

// SeekCursor positions the reader before the entry identified by token, an
// opaque cursor string from a previously read entry, so the next call to
// Next returns that entry.
func (r *Reader) SeekCursor(token string) error {
	if r.closed {
		return ErrUseAfterClose
	}
	r.onEntry = false
	return r.cur.SeekCursor(token)
}

// Next advances the reader to the next entry that passes the installed
// matches. It returns false once the reader has stepped past the last
// entry; repeated calls at the boundary keep returning false.
func (r *Reader) Next() (bool, error) {
	if r.closed {
		return false, ErrUseAfterClose
	}
	ok, err := r.cur.Next()
	r.onEntry = ok && err == nil
	return ok, err
}

// Previous steps the reader back to the previous matching entry. It returns
// false once the reader has stepped before the first entry.
func (r *Reader) Previous() (bool, error) {
	if r.closed {
		return false, ErrUseAfterClose
	}
	ok, err := r.cur.Previous()
	r.onEntry = ok && err == nil
	return ok, err
}

// GetField returns the raw bytes of the named field on the current entry.
// It returns ErrFieldAbsent when the entry lacks the field and
// ErrNoCurrentEntry when the reader is not positioned at an entry.
func (r *Reader) GetField(name string) ([]byte, error) {
	if r.closed {
		return nil, ErrUseAfterClose
	}
	if !r.onEntry {
		return nil, ErrNoCurrentEntry
	}
	return r.cur.GetData(name)
}

// AddMatch installs a match expression. Subsequent steps skip entries the
// expression rejects. Matches accumulate until FlushMatches is called.
func (r *Reader) AddMatch(expr *MatchExpr) error {
	if r.closed {
		return ErrUseAfterClose
	}
	return expr.apply(r.cur)
}

// FlushMatches removes every installed match.
func (r *Reader) FlushMatches() error {
	if r.closed {
		return ErrUseAfterClose
	}
	return r.cur.FlushMatches()
}

// Wait blocks until entries are appended, journal files change, or the
// timeout elapses. A negative timeout waits indefinitely.
func (r *Reader) Wait(timeout time.Duration) (WakeupType, error) {
	if r.closed {
		return WakeupNop, ErrUseAfterClose
	}
	return r.cur.Wait(timeout)
}

// NextEntry advances the reader and returns the full entry under the
// cursor, with the reception timestamps and cursor token attached as
// double-underscore fields. It returns nil once the end of the journal is
// reached.
func (r *Reader) NextEntry() (*protocol.Entry, error) {
	ok, err := r.Next()
	if err != nil || !ok {
		return nil, err
	}
	return r.currentEntry()
}

// PreviousEntry steps back and returns the full entry under the cursor. It
// returns nil once the start of the journal is reached.
func (r *Reader) PreviousEntry() (*protocol.Entry, error) {
	ok, err := r.Previous()
	if err != nil || !ok {
		return nil, err
	}
	return r.currentEntry()
}

func (r *Reader) currentEntry() (*protocol.Entry, error) {
	e := protocol.NewEntry()

	fs := r.Fields()
	for fs.Scan() {
		f := fs.Field()
		if err := e.Append(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	if err := fs.Err(); err != nil {
		return nil, err
	}

	realtime, err := r.cur.GetRealtimeUsec()
	if err != nil {
		return nil, err
	}
	if err := e.AppendString(protocol.FieldRealtimeTimestamp, strconv.FormatUint(realtime, 10)); err != nil {
		return nil, err
	}

	monotonic, err := r.cur.GetMonotonicUsec()
	if err != nil {
		return nil, err
	}
	if err := e.AppendString(protocol.FieldMonotonicTimestamp, strconv.FormatUint(monotonic, 10)); err != nil {
		return nil, err
	}

	token, err := r.cur.GetCursor()
	if err != nil {
		return nil, err
	}
	if err := e.AppendString(protocol.FieldCursor, token); err != nil {
		return nil, err
	}

	internal.Debugf(r.conf, "read entry %s", internal.Prettybuf([]byte(e.String())))
	return e, nil
}

// Close releases the daemon-side cursor. Any further operation on the
// reader returns ErrUseAfterClose.
func (r *Reader) Close() error {
	if r.closed {
		return ErrUseAfterClose
	}
	r.closed = true
	r.onEntry = false
	return r.cur.Close()
}

// Fields returns an iterator over the (name, value) pairs of the current
// entry. Requesting a new iterator restarts enumeration, and iterators do
// not survive a step: ask again after advancing.
func (r *Reader) Fields() *Fields {
	fs := &Fields{r: r}
	if r.closed {
		fs.err = ErrUseAfterClose
		return fs
	}
	if !r.onEntry {
		fs.err = ErrNoCurrentEntry
		return fs
	}
	r.cur.RestartData()
	return fs
}

// Fields iterates over the fields of the entry currently under a reader's
// cursor.
type Fields struct {
	r    *Reader
	f    protocol.Field
	err  error
	done bool
}

// Scan reads the next field. It returns false when the entry's fields are
// exhausted or an error occurred; Err distinguishes the two.
func (fs *Fields) Scan() bool {
	if fs.err != nil || fs.done {
		return false
	}
	f, ok, err := fs.r.cur.EnumerateData()
	if err != nil {
		fs.err = err
		return false
	}
	if !ok {
		fs.done = true
		return false
	}
	fs.f = f
	return true
}

// Field returns the most recently scanned field.
func (fs *Fields) Field() protocol.Field {
	return fs.f
}

// Err returns the first error encountered while iterating.
func (fs *Fields) Err() error {
	return fs.err
}
