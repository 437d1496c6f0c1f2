//go:build linux

package transport

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/jeffrom/journald/internal"
)

// test hook
var memfdCreate = unix.MemfdCreate

// sendSealed hands the payload off through an anonymous memory region: the
// payload is written, the region is sealed against resizing so the daemon
// can map it without racing a writer, and the region's descriptor is passed
// as ancillary data on a zero-length datagram. The descriptor is closed on
// the sending side on every path, including failures.
func (s *SocketSender) sendSealed(p []byte) error {
	fd, err := memfdCreate("journald-payload", unix.MFD_ALLOW_SEALING|unix.MFD_CLOEXEC)
	if err != nil {
		return errors.Wrapf(ErrTransportUnavailable, "memfd create: %v", err)
	}
	defer func() {
		internal.IgnoreError(unix.Close(fd))
	}()

	if err := writeFull(fd, p); err != nil {
		return errors.Wrapf(ErrTransportUnavailable, "memfd write: %v", err)
	}

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS,
		unix.F_SEAL_SHRINK|unix.F_SEAL_GROW|unix.F_SEAL_WRITE|unix.F_SEAL_SEAL); err != nil {
		return errors.Wrapf(ErrTransportUnavailable, "memfd seal: %v", err)
	}

	oob := unix.UnixRights(fd)
	if _, _, err := s.conn.WriteMsgUnix(nil, oob, s.addr); err != nil {
		return errors.Wrapf(ErrTransportUnavailable, "%v", err)
	}
	return nil
}

func writeFull(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
