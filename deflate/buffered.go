// Package deflate implements the codec session and buffered codec layers
// (spec.md §4.1, §4.2): a thin wrapper around a third-party DEFLATE engine
// (klauspost/compress, configured for gzip framing) and the buffer-pair
// pipeline that turns its span-in/span-out shape into push/pull byte-stream
// semantics with no heap churn in steady state.
package deflate

import "github.com/andybalholm/gzstream/bytespan"

// DeflateCodec pairs a deflate codec session with a plaintext buffer (the
// caller pushes uncompressed bytes in) and a compressed buffer (the caller
// pulls compressed bytes out of).
type DeflateCodec struct {
	session *deflateSession
	plain   *bytespan.Buffer
	comp    *bytespan.Buffer
	level   int
}

// NewDeflateCodec creates a deflate buffered codec at the given compression
// level, with the given plaintext and compressed buffer capacities.
func NewDeflateCodec(level, plainBufSize, compBufSize int) *DeflateCodec {
	return &DeflateCodec{
		session: newDeflateSession(level),
		plain:   bytespan.NewBuffer(plainBufSize),
		comp:    bytespan.NewBuffer(compBufSize),
		level:   level,
	}
}

// PlainAvail returns the writable space in the plaintext buffer.
func (c *DeflateCodec) PlainAvail() bytespan.Span { return c.plain.Avail() }

// PlainProduce records that n bytes of plaintext were written into
// PlainAvail().
func (c *DeflateCodec) PlainProduce(n int) { c.plain.Produce(n) }

// PlainFull reports whether the plaintext buffer has no more room.
func (c *DeflateCodec) PlainFull() bool { return len(c.plain.Avail()) == 0 }

// CompressedContents returns the compressed bytes ready for the caller.
func (c *DeflateCodec) CompressedContents() bytespan.Span { return c.comp.Contents() }

// CompressedConsume records that n bytes were read out of
// CompressedContents().
func (c *DeflateCodec) CompressedConsume(n int) { c.comp.Consume(n) }

// Step runs the session once against the plaintext buffer's contents and
// the compressed buffer's available space, advancing both buffers by
// whatever the session actually consumed/produced. It is a no-op if there
// is no plaintext pending, final is false and the session holds no
// compressed output still to be drained — the progress guarantee from
// spec.md §4.2.
func (c *DeflateCodec) Step(final bool) (produced int, err error) {
	if c.plain.Empty() && !final && !c.session.hasPendingOutput() {
		return 0, nil
	}
	if !c.session.hasInput() && !c.plain.Empty() {
		if err := c.session.ProvideInput(c.plain.Contents()); err != nil {
			return 0, err
		}
	}
	consumed, produced, err := c.session.Step(c.comp.Avail(), final)
	c.plain.Consume(consumed)
	c.comp.Produce(produced)
	return produced, err
}

// Reset drops any buffered plaintext/compressed content and rebuilds the
// underlying engine so the codec can be reused for a new logical stream
// without reallocating its buffers.
func (c *DeflateCodec) Reset() {
	c.plain.ClearToEmpty(false)
	c.comp.ClearToEmpty(false)
	c.session.Rebuild(c.level)
}

// Totals returns the running plaintext-consumed / compressed-produced byte
// counters.
func (c *DeflateCodec) Totals() (nIn, nOut uint64) { return c.session.Totals() }

// InflateCodec is the mirror image of DeflateCodec: the caller pushes
// compressed bytes in and pulls decompressed plaintext out.
type InflateCodec struct {
	session *inflateSession
	comp    *bytespan.Buffer
	plain   *bytespan.Buffer
}

// NewInflateCodec creates an inflate buffered codec with the given
// compressed and plaintext buffer capacities.
func NewInflateCodec(compBufSize, plainBufSize int) *InflateCodec {
	return &InflateCodec{
		session: newInflateSession(),
		comp:    bytespan.NewBuffer(compBufSize),
		plain:   bytespan.NewBuffer(plainBufSize),
	}
}

// CompressedAvail returns the writable space in the compressed buffer, for
// the caller to fill from upstream.
func (c *InflateCodec) CompressedAvail() bytespan.Span { return c.comp.Avail() }

// CompressedProduce records that n bytes were written into
// CompressedAvail().
func (c *InflateCodec) CompressedProduce(n int) { c.comp.Produce(n) }

// PlainContents returns the decompressed bytes ready for the caller.
func (c *InflateCodec) PlainContents() bytespan.Span { return c.plain.Contents() }

// PlainConsume records that n bytes were read out of PlainContents().
func (c *InflateCodec) PlainConsume(n int) { c.plain.Consume(n) }

// AtStreamEnd reports whether the engine has reported the end of the
// compressed stream (its trailer has been fully validated).
func (c *InflateCodec) AtStreamEnd() bool { return c.session.done }

// MarkCompressedSourceExhausted records that the compressed source has
// permanently ended, so a truncated stream can be reported as corrupted
// input instead of silently stalling on "need more input" forever.
func (c *InflateCodec) MarkCompressedSourceExhausted() { c.session.MarkExhausted() }

// Step runs the session once with the currently attached windows,
// advancing both buffers by the amounts the session actually
// consumed/produced. It returns the number of plaintext bytes added.
func (c *InflateCodec) Step() (produced int, streamEnded bool, err error) {
	if !c.session.hasInput() && !c.comp.Empty() {
		if err := c.session.ProvideInput(c.comp.Contents()); err != nil {
			return 0, false, err
		}
	}
	if len(c.plain.Avail()) == 0 {
		return 0, c.session.done, nil
	}
	consumed, produced, status, err := c.session.Step(c.plain.Avail())
	c.comp.Consume(consumed)
	c.plain.Produce(produced)
	if err != nil {
		return produced, false, err
	}
	return produced, status == stepStreamEnd, nil
}

// Reset drops any buffered compressed/plaintext content and starts a fresh
// engine so the codec can be reused for a new logical stream without
// reallocating its buffers.
func (c *InflateCodec) Reset() {
	c.comp.ClearToEmpty(false)
	c.plain.ClearToEmpty(false)
	c.session = newInflateSession()
}

// Totals returns the running compressed-consumed / plaintext-produced byte
// counters.
func (c *InflateCodec) Totals() (nIn, nOut uint64) { return c.session.Totals() }
