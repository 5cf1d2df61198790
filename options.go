package gzstream

import "go.uber.org/zap"

// Options configures a Stream. There is no ambient/global configuration
// source (spec.md §1 puts the command-line driver that would read one out
// of scope): every knob is an explicit constructor argument, the way
// mutagen's framing.NewEncoder/NewDecoder take theirs.
type Options struct {
	// BufSize is the capacity, in bytes, of each of the four internal
	// buffers (plaintext and compressed, read and write side). It must be
	// at least 1; spec.md §8 requires a buffer size of 1 to still work.
	BufSize int
	// Level is the deflate compression level, as accepted by
	// klauspost/compress/gzip (klauspost/compress/flate.NoCompression
	// through BestCompression, or DefaultCompression). The zero value
	// selects level 6, so NoCompression (0) cannot be requested.
	Level int
	// Mode selects Readable/Writable/Binary (spec.md §4.3). Readable and
	// Writable may be combined, but the resulting stream has no seek
	// support, matching the C++ origin's limitation.
	Mode Mode
	// Logger receives a Debug-level entry each time the write-side refill
	// loop drains compressed bytes downstream, and a Warn-level entry for a
	// short downstream write before it becomes an Error value. A nil Logger is treated as zap.NewNop(), so the
	// core stays global-free (spec.md §5) by default.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) bufSize() int {
	if o.BufSize <= 0 {
		return 64 * 1024
	}
	return o.BufSize
}

func (o Options) level() int {
	if o.Level == 0 {
		return 6
	}
	return o.Level
}
