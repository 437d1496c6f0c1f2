package config

import "testing"

func TestValidate(t *testing.T) {
	c := New()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got: %+v", err)
	}

	c = New()
	c.SocketPath = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected empty socket path to be rejected")
	}

	c = New()
	c.SealThreshold = -1
	if err := c.Validate(); err == nil {
		t.Fatal("expected negative seal threshold to be rejected")
	}

	c = New()
	c.Files = UserFiles + 1
	if err := c.Validate(); err == nil {
		t.Fatal("expected out-of-range files selection to be rejected")
	}
}

func TestNewCopiesDefault(t *testing.T) {
	c := New()
	c.SocketPath = "/tmp/other.sock"
	if Default.SocketPath == c.SocketPath {
		t.Fatal("expected New to copy the default, not alias it")
	}
}
