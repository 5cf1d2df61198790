package gzstream

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is a snapshot of the four running byte counters spec.md §6 names:
// compressed bytes read, plaintext bytes produced, plaintext bytes
// accepted for writing, and compressed bytes emitted. All four reset to
// zero on Close.
type Stats struct {
	CompressedRead    uint64
	PlaintextProduced uint64
	PlaintextWritten  uint64
	CompressedWritten uint64
}

// String renders the counters with human-readable byte units, in the
// spirit of mutagen's cmd/mutagen/sync/list_monitor_common.go use of
// go-humanize for progress reporting.
func (s Stats) String() string {
	return fmt.Sprintf(
		"read %s compressed -> %s plaintext, wrote %s plaintext -> %s compressed",
		humanize.Bytes(s.CompressedRead),
		humanize.Bytes(s.PlaintextProduced),
		humanize.Bytes(s.PlaintextWritten),
		humanize.Bytes(s.CompressedWritten),
	)
}
