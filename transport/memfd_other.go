//go:build !linux

package transport

import (
	"github.com/pkg/errors"
)

func (s *SocketSender) sendSealed(p []byte) error {
	return errors.Wrap(ErrTransportUnavailable, "sealed memory handoff requires linux")
}
