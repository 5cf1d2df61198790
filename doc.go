// Package gzstream implements streaming gzip compression and
// decompression as an ordinary byte-stream: Read, Write, and Close, with
// no requirement that a whole payload fit in memory at once.
//
// The pipeline is built in three layers. bytespan provides a
// fixed-capacity, non-wrapping byte buffer. deflate wraps
// github.com/klauspost/compress's push/pull codec API behind a
// span-in/span-out "step" contract, pairing a codec session with a
// buffer on each side. This package's Stream type drives those buffered
// codecs against an arbitrary downstream io.Reader/io.Writer/io.Closer,
// and File bundles a Stream with a default *os.File and adds
// line-oriented convenience methods.
//
// Compressed output is always gzip-framed (RFC 1952). Compressed input
// is auto-detected as gzip or zlib (RFC 1950) from its header bytes.
package gzstream
