package testhelper

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

var Golden bool

// SomeEntries is sample field data covering the shapes the wire format has
// to handle: plain text, embedded newlines, and non-UTF8 bytes.
var SomeEntries = [][][2]string{
	{{"MESSAGE", "the journal daemon accepted a connection"}, {"PRIORITY", "6"}},
	{{"MESSAGE", "panic: runtime error\n\ngoroutine 1 [running]:\nmain.main()"}, {"PRIORITY", "2"}, {"UNIT", "app.service"}},
	{{"MESSAGE", "binary \xff\xfe payload"}, {"BLOB", "\x00\x01\x02\n\x03"}},
	{{"MESSAGE", "shutting down"}, {"PRIORITY", "6"}, {"PRIORITY", "7"}},
}

func CheckError(err error) {
	if err != nil {
		log.Printf("%s", debug.Stack())
		log.Fatalf("Unexpected error %+v", err)
	}
}

func WaitForChannel(c chan struct{}) {
	select {
	case <-c:
	case <-time.After(500 * time.Millisecond):
		log.Printf("%s", debug.Stack())
		log.Fatalf("timed out waiting for receive on channel")
	}
}

// TmpSock returns a socket path in a fresh temporary directory. The path is
// kept short since unix socket paths have a hard length limit.
func TmpSock() string {
	dir, err := os.MkdirTemp("", "journald-test")
	CheckError(err)
	return filepath.Join(dir, "journal.sock")
}

// WaitForEntries blocks until the journal holds at least n entries, failing
// the test run if that takes too long.
func WaitForEntries(m *MemJournal, n int) {
	deadline := time.Now().Add(2 * time.Second)
	for m.Len() < n {
		if time.Now().After(deadline) {
			log.Printf("%s", debug.Stack())
			log.Fatalf("timed out waiting for %d entries (have %d)", n, m.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func CheckGoldenFile(filename string, b []byte, golden bool) {
	goldenFile := "testdata/" + filename + ".golden"
	goldenActual := "testdata/" + filename + ".actual.golden"

	if golden {
		log.Printf("Writing golden file to %s", goldenFile)
		CheckError(os.WriteFile(goldenFile, b, 0644))
		return
	}

	expected, err := os.ReadFile(goldenFile)
	CheckError(err)
	if !bytes.Equal(b, expected) {
		CheckError(os.WriteFile(goldenActual, b, 0644))
		log.Fatalf("Golden files didn't match: wrote output to %s", goldenActual)
	}
}

func LoadFixture(filename string) []byte {
	b, err := os.ReadFile("testdata/" + filename + ".golden")
	CheckError(err)
	return b
}
