package testhelper

import (
	"io"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/protocol"
)

// MockDaemon stands in for the journal daemon's submission side: it reads
// datagrams off a unixgram socket, unpacks sealed-memory handoffs from
// ancillary data, decodes the wire payloads and stores the entries in a
// MemJournal. Reading the stored entries back through MemJournal cursors
// closes the loop for integration tests.
type MockDaemon struct {
	t       *testing.T
	conf    *config.Config
	journal *MemJournal
	conn    *net.UnixConn
	done    chan struct{}
	stopped chan struct{}
}

// NewMockDaemon starts a daemon on a fresh temporary socket.
func NewMockDaemon(t *testing.T) *MockDaemon {
	t.Helper()
	conf := TestConfig(testing.Verbose())

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{
		Name: conf.SocketPath,
		Net:  "unixgram",
	})
	if err != nil {
		t.Fatalf("failed to listen on %s: %+v", conf.SocketPath, err)
	}

	d := &MockDaemon{
		t:       t,
		conf:    conf,
		journal: NewMemJournal(),
		conn:    conn,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go d.loop()
	return d
}

// Config returns a client configuration pointing at the daemon's socket.
func (d *MockDaemon) Config() *config.Config {
	return d.conf
}

// Journal returns the daemon's entry store.
func (d *MockDaemon) Journal() *MemJournal {
	return d.journal
}

// Stop shuts the daemon down and waits for its read loop to exit.
func (d *MockDaemon) Stop() {
	close(d.done)
	internal.IgnoreError(d.conn.Close())
	WaitForChannel(d.stopped)
}

func (d *MockDaemon) loop() {
	defer close(d.stopped)
	buf := make([]byte, 1024*1024)
	oob := make([]byte, 1024)

	for {
		n, oobn, _, _, err := d.conn.ReadMsgUnix(buf, oob)
		if err != nil {
			select {
			case <-d.done:
			default:
				d.t.Errorf("daemon read failed: %+v", err)
			}
			return
		}

		payload := internal.CopyBytes(buf[:n])
		if oobn > 0 {
			payload, err = readSealedPayload(oob[:oobn])
			if err != nil {
				d.t.Errorf("reading sealed payload failed: %+v", err)
				continue
			}
		}

		entry, err := protocol.DecodeEntry(payload)
		if err != nil {
			d.t.Errorf("decoding payload failed: %+v", err)
			continue
		}
		d.journal.Append(entry)
	}
}

// readSealedPayload extracts the memory-region descriptor from ancillary
// data and reads the full payload out of it. The region arrives sealed with
// the shared file offset at the end, so the read starts from zero
// explicitly.
func readSealedPayload(oob []byte) ([]byte, error) {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil {
		return nil, err
	}

	f := os.NewFile(uintptr(fds[0]), "sealed-payload")
	defer f.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
