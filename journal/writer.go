package journal

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/protocol"
	"github.com/jeffrom/journald/transport"
)

// Writer submits entries to the daemon. Each submission is independently
// encoded and delivered; the daemon serializes storage, so concurrent
// submissions from separate writers need no coordination here.
type Writer struct {
	conf   *config.Config
	sender transport.Sender
	closed bool
}

// NewWriter returns a Writer connected to the submission socket configured
// in conf.
func NewWriter(conf *config.Config) (*Writer, error) {
	if conf == nil {
		conf = config.Default
	}
	sender, err := transport.NewSocketSender(conf)
	if err != nil {
		return nil, err
	}
	return &Writer{conf: conf, sender: sender}, nil
}

// Submit encodes the entry and delivers it. Encoding failures (invalid or
// empty field names) surface unchanged; oversized payloads are delivered
// through the sealed-memory path transparently.
func (w *Writer) Submit(e *protocol.Entry) error {
	if w.closed {
		return ErrUseAfterClose
	}
	p, err := protocol.EncodeEntry(e)
	if err != nil {
		return err
	}
	internal.Debugf(w.conf, "submitting %d fields, %d bytes", e.Len(), len(p))
	return w.sender.Send(p)
}

// Print submits a simple message at the given priority.
func (w *Writer) Print(pri Priority, msg string) error {
	e := protocol.NewEntry()
	if err := e.AppendString(protocol.FieldPriority, pri.String()); err != nil {
		return err
	}
	if err := e.AppendString(protocol.FieldMessage, msg); err != nil {
		return err
	}
	return w.Submit(e)
}

// SubmitFields submits preformatted NAME=VALUE pairs. This is a low-level
// operation for callers that need precise control over the fields sent.
func (w *Writer) SubmitFields(pairs ...string) error {
	e := protocol.NewEntry()
	for _, p := range pairs {
		i := strings.IndexByte(p, '=')
		if i < 0 {
			return errors.Errorf("field %q missing '='", p)
		}
		if err := e.AppendString(p[:i], p[i+1:]); err != nil {
			return err
		}
	}
	return w.Submit(e)
}

// Close releases the sending socket. Further submissions return
// ErrUseAfterClose.
func (w *Writer) Close() error {
	if w.closed {
		return ErrUseAfterClose
	}
	w.closed = true
	return w.sender.Close()
}

var defaultWriter *Writer
var defaultWriterErr error
var defaultWriterOnce sync.Once

func getDefaultWriter() (*Writer, error) {
	defaultWriterOnce.Do(func() {
		defaultWriter, defaultWriterErr = NewWriter(config.Default)
	})
	return defaultWriter, defaultWriterErr
}

// Send submits an entry through a shared default writer on the system
// submission socket.
func Send(e *protocol.Entry) error {
	w, err := getDefaultWriter()
	if err != nil {
		return err
	}
	return w.Submit(e)
}

// Print submits a simple message through the shared default writer.
func Print(pri Priority, msg string) error {
	w, err := getDefaultWriter()
	if err != nil {
		return err
	}
	return w.Print(pri, msg)
}
