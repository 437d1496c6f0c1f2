//go:build linux

package transport_test

import (
	"bytes"
	"testing"

	"github.com/jeffrom/journald/protocol"
	"github.com/jeffrom/journald/testhelper"
	"github.com/jeffrom/journald/transport"
)

// oversized payloads must arrive through the sealed-memory handoff with
// content identical to the direct path
func TestSendOversizePayload(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	s, err := transport.NewSocketSender(d.Config())
	if err != nil {
		t.Fatalf("unexpected error creating sender: %+v", err)
	}
	defer s.Close()

	// large enough to exceed any reasonable datagram send buffer
	blob := bytes.Repeat([]byte("stack frame\n"), 256*1024)
	e := protocol.NewEntry()
	testhelper.CheckError(e.AppendString("MESSAGE", "big one"))
	testhelper.CheckError(e.Append("STACK", blob))
	payload, err := protocol.EncodeEntry(e)
	testhelper.CheckError(err)

	if err := s.Send(payload); err != nil {
		t.Fatalf("unexpected error sending oversize payload: %+v", err)
	}

	testhelper.WaitForEntries(d.Journal(), 1)
	got := d.Journal().Entries()[0]
	if msg, ok := got.Message(); !ok || msg != "big one" {
		t.Fatalf("expected delivered message, got %q (%v)", msg, ok)
	}
	v, ok := got.Get("STACK")
	if !ok {
		t.Fatal("expected STACK field on delivered entry")
	}
	if !bytes.Equal(v, blob) {
		t.Fatalf("sealed payload content mismatch: %d vs %d bytes", len(v), len(blob))
	}
}

func TestSendSealThreshold(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	conf := d.Config()
	conf.SealThreshold = 512

	s, err := transport.NewSocketSender(conf)
	if err != nil {
		t.Fatalf("unexpected error creating sender: %+v", err)
	}
	defer s.Close()

	e := protocol.NewEntry()
	testhelper.CheckError(e.Append("DATA", bytes.Repeat([]byte("z"), 2048)))
	payload, err := protocol.EncodeEntry(e)
	testhelper.CheckError(err)

	if err := s.Send(payload); err != nil {
		t.Fatalf("unexpected error sending payload over threshold: %+v", err)
	}

	testhelper.WaitForEntries(d.Journal(), 1)
	v, ok := d.Journal().Entries()[0].Get("DATA")
	if !ok || len(v) != 2048 {
		t.Fatalf("expected 2048 byte DATA field, got %d bytes (%v)", len(v), ok)
	}
}
