package protocol

// NewEntryUnchecked builds an entry without construction-time name
// validation so tests can exercise the encoder's own checks.
func NewEntryUnchecked(fields ...Field) *Entry {
	return &Entry{fields: fields}
}
