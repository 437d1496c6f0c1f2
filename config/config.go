package config

import (
	"fmt"

	"github.com/pkg/errors"
)

// JournalFiles selects the set of journal files a reader opens.
type JournalFiles int

const (
	// AllFiles opens both the system journal and the calling user's journal.
	AllFiles JournalFiles = iota
	// SystemFiles opens only the system-wide journal.
	SystemFiles
	// UserFiles opens only the calling user's journal.
	UserFiles
)

// Config holds configuration variables
type Config struct {
	// File is the path of a file from which configuration is read.
	File string `json:"config-file"`

	// Verbose prints debugging information.
	Verbose bool `json:"verbose"`

	// SocketPath is the datagram socket the daemon accepts submissions on.
	SocketPath string `json:"socket-path"`

	// SealThreshold, when positive, skips the datagram attempt for payloads
	// larger than this many bytes and goes straight to the sealed-memory
	// handoff. Zero means always attempt a datagram first and fall back only
	// when the socket reports the payload is too large.
	SealThreshold int `json:"seal-threshold"`

	// Files selects which journal files a reader opens.
	Files JournalFiles `json:"files"`

	// RuntimeOnly restricts readers to volatile journal files, excluding
	// entries stored persistently.
	RuntimeOnly bool `json:"runtime-only"`

	// LocalOnly restricts readers to journal files generated on the local
	// machine.
	LocalOnly bool `json:"local-only"`
}

// New returns a new configuration object
func New() *Config {
	c := &Config{}
	*c = *Default
	return c
}

func (c *Config) String() string {
	return fmt.Sprintf("%+v", *c)
}

// Validate returns an error pointing to incorrect values for the
// configuration, if any.
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		return errors.New("socket-path must not be empty")
	}
	if c.SealThreshold < 0 {
		return errors.New("seal-threshold must be >= 0")
	}
	if c.Files < AllFiles || c.Files > UserFiles {
		return errors.Errorf("invalid files selection: %d", c.Files)
	}
	return nil
}

// Default is the default configuration. The socket path is fixed by the
// daemon's convention; it is configurable here for tests, which point it at
// a socket of their own.
var Default = &Config{
	SocketPath:    "/run/systemd/journal/socket",
	SealThreshold: 0,
	Files:         AllFiles,
}
