package transport

import (
	"github.com/pkg/errors"
)

// ErrTransportUnavailable is returned when a payload cannot be delivered to
// the daemon's submission socket for any reason other than the payload
// exceeding the datagram size limit. Delivery is never retried internally;
// whether to retry or drop the entry is the caller's decision.
var ErrTransportUnavailable = errors.New("transport unavailable")

// Sender delivers encoded entry payloads to the daemon's submission
// endpoint.
type Sender interface {
	Send(p []byte) error
	Close() error
}
