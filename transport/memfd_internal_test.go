//go:build linux

package transport

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/jeffrom/journald/config"
)

// the sealed region's descriptor must be released on the sender side even
// when the handoff send fails
func TestSealedRegionClosedOnSendFailure(t *testing.T) {
	dir, err := os.MkdirTemp("", "journald-test")
	if err != nil {
		t.Fatalf("unexpected error creating tmpdir: %v", err)
	}
	defer os.RemoveAll(dir)

	conf := config.New()
	conf.SocketPath = filepath.Join(dir, "missing.sock")
	conf.SealThreshold = 1

	s, err := NewSocketSender(conf)
	if err != nil {
		t.Fatalf("unexpected error creating sender: %+v", err)
	}
	defer s.Close()

	var createdFd int
	orig := memfdCreate
	memfdCreate = func(name string, flags int) (int, error) {
		fd, err := unix.MemfdCreate(name, flags)
		createdFd = fd
		return fd, err
	}
	defer func() { memfdCreate = orig }()

	if err := s.Send([]byte("MESSAGE=doomed\n")); err == nil {
		t.Fatal("expected send to fail with no socket present")
	}
	if createdFd == 0 {
		t.Fatal("expected a memfd to have been created")
	}

	if _, err := unix.FcntlInt(uintptr(createdFd), unix.F_GETFD, 0); err != unix.EBADF {
		t.Fatalf("expected sealed region descriptor to be closed, fcntl returned: %v", err)
	}
}

// the sealed region must carry all seals before the descriptor is handed off
func TestSealedRegionIsSealed(t *testing.T) {
	dir, err := os.MkdirTemp("", "journald-test")
	if err != nil {
		t.Fatalf("unexpected error creating tmpdir: %v", err)
	}
	defer os.RemoveAll(dir)

	sockPath := filepath.Join(dir, "journal.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		t.Fatalf("unexpected error listening: %v", err)
	}
	defer conn.Close()

	conf := config.New()
	conf.SocketPath = sockPath
	conf.SealThreshold = 1

	s, err := NewSocketSender(conf)
	if err != nil {
		t.Fatalf("unexpected error creating sender: %+v", err)
	}
	defer s.Close()

	if err := s.Send([]byte("MESSAGE=sealed\n")); err != nil {
		t.Fatalf("unexpected error sending: %+v", err)
	}

	buf := make([]byte, 1024)
	oob := make([]byte, 1024)
	n, oobn, _, _, err := conn.ReadMsgUnix(buf, oob)
	if err != nil {
		t.Fatalf("unexpected error receiving: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero-length primary payload, got %d bytes", n)
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		t.Fatalf("unexpected error parsing control message: %v", err)
	}
	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil {
		t.Fatalf("unexpected error parsing rights: %v", err)
	}
	defer unix.Close(fds[0])

	seals, err := unix.FcntlInt(uintptr(fds[0]), unix.F_GET_SEALS, 0)
	if err != nil {
		t.Fatalf("unexpected error reading seals: %v", err)
	}
	want := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_WRITE | unix.F_SEAL_SEAL
	if seals&want != want {
		t.Fatalf("expected seals %#x, got %#x", want, seals)
	}
}
