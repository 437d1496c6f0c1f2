package journal_test

import (
	"testing"

	"github.com/jeffrom/journald/journal"
	"github.com/jeffrom/journald/protocol"
	"github.com/jeffrom/journald/testhelper"
)

func TestWriterSubmit(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	defer w.Close()

	for _, fields := range testhelper.SomeEntries {
		e := protocol.NewEntry()
		for _, f := range fields {
			testhelper.CheckError(e.AppendString(f[0], f[1]))
		}
		testhelper.CheckError(w.Submit(e))
	}

	testhelper.WaitForEntries(d.Journal(), len(testhelper.SomeEntries))

	stored := d.Journal().Entries()
	for i, fields := range testhelper.SomeEntries {
		got := stored[i].Fields()
		if len(got) != len(fields) {
			t.Fatalf("entry %d: expected %d fields, got %d", i, len(fields), len(got))
		}
		for j, f := range fields {
			if got[j].Name != f[0] || string(got[j].Value) != f[1] {
				t.Fatalf("entry %d field %d: expected %s=%q, got %s=%q",
					i, j, f[0], f[1], got[j].Name, got[j].Value)
			}
		}
	}
}

func TestWriterSubmitInvalidEntry(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	defer w.Close()

	e := protocol.NewEntry()
	testhelper.CheckError(e.AppendString(protocol.FieldMessage, "ok"))
	if err := e.AppendString("lowercase", "nope"); err == nil {
		t.Fatal("expected appending an invalid name to fail")
	}

	// entries that fail encoding-side validation never reach the socket
	err = w.SubmitFields("MESSAGE=hi", "9BAD=value")
	if _, ok := err.(protocol.InvalidFieldNameError); !ok {
		t.Fatalf("expected InvalidFieldNameError, got %T: %v", err, err)
	}
	if n := d.Journal().Len(); n != 0 {
		t.Fatalf("expected no delivered entries, got %d", n)
	}
}

func TestWriterPrint(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	defer w.Close()

	testhelper.CheckError(w.Print(journal.PriWarning, "disk is filling up"))
	testhelper.WaitForEntries(d.Journal(), 1)

	e := d.Journal().Entries()[0]
	if msgOf(e) != "disk is filling up" {
		t.Fatalf("expected message, got %q", msgOf(e))
	}
	if v, ok := e.Get(protocol.FieldPriority); !ok || string(v) != "4" {
		t.Fatalf("expected PRIORITY=4, got %q", v)
	}
}

func TestWriterSubmitFields(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	defer w.Close()

	testhelper.CheckError(w.SubmitFields("MESSAGE=deploy finished", "UNIT=app.service", "VERSION=1.2.3"))
	testhelper.WaitForEntries(d.Journal(), 1)

	e := d.Journal().Entries()[0]
	if v, ok := e.Get("UNIT"); !ok || string(v) != "app.service" {
		t.Fatalf("expected UNIT=app.service, got %q", v)
	}

	if err := w.SubmitFields("MALFORMED"); err == nil {
		t.Fatal("expected an error for a pair without '='")
	}
}

func TestWriterUseAfterClose(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	testhelper.CheckError(w.Close())

	if err := w.Close(); err != journal.ErrUseAfterClose {
		t.Fatalf("expected ErrUseAfterClose from second close, got %v", err)
	}
	e := protocol.NewEntry()
	testhelper.CheckError(e.AppendString(protocol.FieldMessage, "late"))
	if err := w.Submit(e); err != journal.ErrUseAfterClose {
		t.Fatalf("expected ErrUseAfterClose from submit, got %v", err)
	}
}

// submit through the socket and read back through cursors
func TestWriterReaderRoundTrip(t *testing.T) {
	d := testhelper.NewMockDaemon(t)
	defer d.Stop()

	w, err := journal.NewWriter(d.Config())
	testhelper.CheckError(err)
	defer w.Close()

	testhelper.CheckError(w.SubmitFields("MESSAGE=first", "UNIT=a.service"))
	testhelper.CheckError(w.SubmitFields("MESSAGE=second", "UNIT=b.service"))
	testhelper.CheckError(w.SubmitFields("MESSAGE=third", "UNIT=a.service"))
	testhelper.WaitForEntries(d.Journal(), 3)

	r := journal.NewReader(d.Config(), d.Journal().OpenCursor())
	defer r.Close()

	expr := journal.NewMatch().AndString("UNIT", "a.service")
	testhelper.CheckError(r.AddMatch(expr))
	testhelper.CheckError(r.SeekHead())

	var msgs []string
	for {
		e, err := r.NextEntry()
		testhelper.CheckError(err)
		if e == nil {
			break
		}
		msgs = append(msgs, msgOf(e))
	}
	if len(msgs) != 2 || msgs[0] != "first" || msgs[1] != "third" {
		t.Fatalf("expected first and third, got %v", msgs)
	}
}
