//go:build linux && cgo

package journal

/*
#cgo pkg-config: libsystemd
#include <stdlib.h>
#include <systemd/sd-journal.h>
*/
import "C"

import (
	"bytes"
	"syscall"
	"time"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/protocol"
)

// sdCursor binds the system journal's native cursor. All methods mirror the
// daemon's documented primitives one to one; negative return codes carry an
// errno.
type sdCursor struct {
	j *C.sd_journal
}

func openSystemCursor(conf *config.Config) (Cursor, error) {
	var flags C.int
	if conf.RuntimeOnly {
		flags |= C.SD_JOURNAL_RUNTIME_ONLY
	}
	if conf.LocalOnly {
		flags |= C.SD_JOURNAL_LOCAL_ONLY
	}
	switch conf.Files {
	case config.SystemFiles:
		flags |= C.SD_JOURNAL_SYSTEM
	case config.UserFiles:
		flags |= C.SD_JOURNAL_CURRENT_USER
	}

	cur := &sdCursor{}
	if rc := C.sd_journal_open(&cur.j, flags); rc < 0 {
		return nil, errors.Wrapf(ErrJournalUnavailable, "%v", syscall.Errno(-rc))
	}
	return cur, nil
}

func rcErr(rc C.int) error {
	if rc < 0 {
		return syscall.Errno(-rc)
	}
	return nil
}

func (c *sdCursor) SeekHead() error {
	return rcErr(C.sd_journal_seek_head(c.j))
}

func (c *sdCursor) SeekTail() error {
	return rcErr(C.sd_journal_seek_tail(c.j))
}

func (c *sdCursor) SeekCursor(token string) error {
	ctoken := C.CString(token)
	defer C.free(unsafe.Pointer(ctoken))
	return rcErr(C.sd_journal_seek_cursor(c.j, ctoken))
}

func (c *sdCursor) Next() (bool, error) {
	rc := C.sd_journal_next(c.j)
	if rc < 0 {
		return false, rcErr(rc)
	}
	return rc > 0, nil
}

func (c *sdCursor) Previous() (bool, error) {
	rc := C.sd_journal_previous(c.j)
	if rc < 0 {
		return false, rcErr(rc)
	}
	return rc > 0, nil
}

func (c *sdCursor) GetData(field string) ([]byte, error) {
	cfield := C.CString(field)
	defer C.free(unsafe.Pointer(cfield))

	var data unsafe.Pointer
	var sz C.size_t
	rc := C.sd_journal_get_data(c.j, cfield, &data, &sz)
	if rc < 0 {
		if syscall.Errno(-rc) == syscall.ENOENT {
			return nil, ErrFieldAbsent
		}
		return nil, rcErr(rc)
	}

	// the daemon hands back NAME=VALUE; only the value is wanted here
	b := C.GoBytes(data, C.int(sz))
	if i := bytes.IndexByte(b, '='); i >= 0 {
		b = b[i+1:]
	}
	return b, nil
}

func (c *sdCursor) RestartData() {
	C.sd_journal_restart_data(c.j)
}

func (c *sdCursor) EnumerateData() (protocol.Field, bool, error) {
	var data unsafe.Pointer
	var sz C.size_t
	rc := C.sd_journal_enumerate_data(c.j, &data, &sz)
	if rc < 0 {
		return protocol.Field{}, false, rcErr(rc)
	}
	if rc == 0 {
		return protocol.Field{}, false, nil
	}

	b := C.GoBytes(data, C.int(sz))
	i := bytes.IndexByte(b, '=')
	if i < 0 {
		return protocol.Field{}, false, errors.Errorf("malformed field data: %q", internal.Prettybuf(b))
	}
	return protocol.Field{Name: string(b[:i]), Value: b[i+1:]}, true, nil
}

func (c *sdCursor) GetRealtimeUsec() (uint64, error) {
	var usec C.uint64_t
	if rc := C.sd_journal_get_realtime_usec(c.j, &usec); rc < 0 {
		return 0, rcErr(rc)
	}
	return uint64(usec), nil
}

func (c *sdCursor) GetMonotonicUsec() (uint64, error) {
	var usec C.uint64_t
	var bootID C.sd_id128_t
	if rc := C.sd_journal_get_monotonic_usec(c.j, &usec, &bootID); rc < 0 {
		return 0, rcErr(rc)
	}
	return uint64(usec), nil
}

func (c *sdCursor) GetCursor() (string, error) {
	var ctoken *C.char
	if rc := C.sd_journal_get_cursor(c.j, &ctoken); rc < 0 {
		return "", rcErr(rc)
	}
	defer C.free(unsafe.Pointer(ctoken))
	return C.GoString(ctoken), nil
}

func (c *sdCursor) AddMatch(field string, value []byte) error {
	data := make([]byte, 0, len(field)+1+len(value))
	data = append(data, field...)
	data = append(data, '=')
	data = append(data, value...)

	cdata := C.CBytes(data)
	defer C.free(cdata)
	return rcErr(C.sd_journal_add_match(c.j, cdata, C.size_t(len(data))))
}

func (c *sdCursor) AddDisjunction() error {
	return rcErr(C.sd_journal_add_disjunction(c.j))
}

func (c *sdCursor) FlushMatches() error {
	C.sd_journal_flush_matches(c.j)
	return nil
}

func (c *sdCursor) Wait(timeout time.Duration) (WakeupType, error) {
	usec := C.uint64_t(timeout / time.Microsecond)
	if timeout < 0 {
		usec = ^C.uint64_t(0)
	}
	rc := C.sd_journal_wait(c.j, usec)
	if rc < 0 {
		return WakeupNop, rcErr(rc)
	}
	return WakeupType(rc), nil
}

func (c *sdCursor) Close() error {
	if c.j != nil {
		C.sd_journal_close(c.j)
		c.j = nil
	}
	return nil
}
