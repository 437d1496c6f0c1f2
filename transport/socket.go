package transport

import (
	"net"
	"syscall"

	"github.com/pkg/errors"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/internal"
)

// SocketSender submits payloads over the daemon's datagram socket. A
// payload is sent as a single datagram when it fits; payloads the socket
// reports as too large are handed off through a sealed anonymous memory
// region instead, with the region's descriptor attached as ancillary data
// on a zero-length datagram.
type SocketSender struct {
	conf *config.Config
	conn *net.UnixConn
	addr *net.UnixAddr
}

// NewSocketSender returns a SocketSender connected to the submission socket
// configured in conf.
func NewSocketSender(conf *config.Config) (*SocketSender, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// an unbound datagram socket; the kernel autobinds a local address
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Net: "unixgram"})
	if err != nil {
		return nil, errors.Wrapf(ErrTransportUnavailable, "%v", err)
	}

	return &SocketSender{
		conf: conf,
		conn: conn,
		addr: &net.UnixAddr{Name: conf.SocketPath, Net: "unixgram"},
	}, nil
}

// Send delivers one encoded payload. Oversized payloads are recovered
// transparently through the sealed-memory path; any other failure surfaces
// as ErrTransportUnavailable.
func (s *SocketSender) Send(p []byte) error {
	if t := s.conf.SealThreshold; t > 0 && len(p) > t {
		internal.Debugf(s.conf, "%d byte payload over threshold %d, sealing", len(p), t)
		return s.sendSealed(p)
	}

	_, _, err := s.conn.WriteMsgUnix(p, nil, s.addr)
	if err == nil {
		return nil
	}
	if isOversize(err) {
		internal.Debugf(s.conf, "%d byte payload exceeds datagram limit, sealing", len(p))
		return s.sendSealed(p)
	}
	return errors.Wrapf(ErrTransportUnavailable, "%v", err)
}

// Close releases the sending socket.
func (s *SocketSender) Close() error {
	return s.conn.Close()
}

// isOversize reports whether err is the socket's distinct payload-too-large
// failure, as opposed to a generic delivery error.
func isOversize(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EMSGSIZE
	}
	return false
}
