package gzstream

// Mode is a bitmask of the byte-stream adapter's open mode flags
// (spec.md §4.3).
type Mode uint8

const (
	// Readable allows Read/ReadUntil/Peek/Discard.
	Readable Mode = 1 << iota
	// Writable allows Write/Sync/FinalFlush.
	Writable
	// Binary marks the stream as binary-mode. This implementation never
	// performs text translation, so Binary is accepted for API parity with
	// the host platform's stream contract but has no behavioral effect.
	Binary
)

func (m Mode) has(bit Mode) bool { return m&bit != 0 }
