package gzstream

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/andybalholm/gzstream/deflate"
	"github.com/andybalholm/gzstream/gzerr"
)

// state is the adapter's lifecycle, spec.md §4.3:
//
//	closed --(AdoptDownstream/Open)--> open
//	open   --(FinalFlush)------------> open-final  (writes error; reads OK)
//	open   --(Close)------------------> closed
//	open-final --(Close)--------------> closed
type state int

const (
	stateClosed state = iota
	stateOpen
	stateOpenFinal
)

// Downstream is what a Stream reads compressed bytes from and/or writes
// them to. *os.File satisfies it, as does any io.ReadWriteCloser.
type Downstream interface {
	io.Reader
	io.Writer
	io.Closer
}

// Which selects the read or write position for Stream.Seek.
type Which int

const (
	WhichRead Which = iota
	WhichWrite
)

// ErrSeekUnsupported is returned by Seek for any request other than the
// tell-equivalent (offset=0, whence=io.SeekCurrent) call.
var ErrSeekUnsupported = errors.New("gzstream: only offset=0, whence=current seeks are supported")

// Stream is the byte-stream adapter (spec.md §4.3): it implements the
// host's sequential byte-stream contract — Read, Write, Close and their
// supporting operations — on top of one inflate buffered codec (read
// path) and one deflate buffered codec (write path), feeding a downstream
// byte sink/source. Both buffered codecs exist for the lifetime of the
// Stream, dormant if their direction is never used.
type Stream struct {
	mode Mode
	log  *zap.Logger

	state state

	down       Downstream
	nativeInfo any

	inflate *deflate.InflateCodec
	deflate *deflate.DeflateCodec
	level   int

	readPos  uint64
	writePos uint64

	stats Stats
}

// New creates a Stream in the closed state, ready for AdoptDownstream or
// Open. The buffered codecs are allocated up front (spec.md §3: "Present
// even when unused — just dormant").
func New(opts Options) *Stream {
	bs := opts.bufSize()
	return &Stream{
		mode:    opts.Mode,
		log:     opts.logger(),
		state:   stateClosed,
		inflate: deflate.NewInflateCodec(bs, bs),
		deflate: deflate.NewDeflateCodec(opts.level(), bs, bs),
		level:   opts.level(),
	}
}

// AdoptDownstream installs down as the adapter's byte sink/source,
// transitioning it from closed to open. Any existing downstream is closed
// first. nativeHandle is retained only for informational passthrough via
// NativeHandle.
func (s *Stream) AdoptDownstream(down Downstream, nativeHandle any) error {
	if s.state != stateClosed {
		if err := s.Close(); err != nil {
			return err
		}
	}
	s.down = down
	s.nativeInfo = nativeHandle
	s.state = stateOpen
	return nil
}

// Open closes the stream if necessary, then opens path as the default
// file-backed sink/source in binary mode, per spec.md §4.3.
func (s *Stream) Open(path string, mode Mode) error {
	if s.state != stateClosed {
		if err := s.Close(); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, openFlags(mode), 0o644)
	if err != nil {
		return gzerr.Wrap(gzerr.OpenFailed, err, "gzstream: failed to open "+path)
	}
	s.mode = mode | Binary
	s.down = f
	s.nativeInfo = f
	s.state = stateOpen
	return nil
}

func openFlags(mode Mode) int {
	switch {
	case mode.has(Readable) && mode.has(Writable):
		return os.O_RDWR | os.O_CREATE
	case mode.has(Writable):
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	default:
		return os.O_RDONLY
	}
}

// IsOpen reports whether the adapter has a downstream installed (open or
// open-final).
func (s *Stream) IsOpen() bool { return s.state != stateClosed }

// IsClosed reports whether the adapter is closed.
func (s *Stream) IsClosed() bool { return s.state == stateClosed }

// NativeHandle returns whatever was passed to AdoptDownstream, or the
// *os.File last opened by Open — informational only, never for the caller
// to perform I/O through directly.
func (s *Stream) NativeHandle() any { return s.nativeInfo }

// Stats returns a snapshot of the running byte counters.
func (s *Stream) Stats() Stats { return s.stats }

// TellRead returns the number of plaintext bytes decoded and returned to
// callers of Read, or skipped by Discard, so far.
func (s *Stream) TellRead() uint64 { return s.readPos }

// TellWrite returns the number of plaintext bytes accepted by Write so
// far.
func (s *Stream) TellWrite() uint64 { return s.writePos }

// Seek supports only the tell-equivalent call (offset=0,
// whence=io.SeekCurrent); anything else returns ErrSeekUnsupported.
func (s *Stream) Seek(offset int64, whence int, which Which) (int64, error) {
	if offset != 0 || whence != io.SeekCurrent {
		return 0, ErrSeekUnsupported
	}
	switch which {
	case WhichRead:
		return int64(s.readPos), nil
	case WhichWrite:
		return int64(s.writePos), nil
	default:
		return 0, ErrSeekUnsupported
	}
}

// Write pushes n bytes of plaintext into the deflate pipeline, refilling
// (draining compressed output to the downstream sink) whenever the
// internal plaintext buffer fills. Write of zero bytes is a no-op.
func (s *Stream) Write(p []byte) (int, error) {
	if !s.mode.has(Writable) {
		return 0, gzerr.New(gzerr.ModeMismatch, "gzstream: Write on a non-writable stream")
	}
	if s.state != stateOpen {
		return 0, gzerr.New(gzerr.WriteAfterFinal, "gzstream: Write after FinalFlush or Close")
	}

	total := 0
	for len(p) > 0 {
		if len(s.deflate.PlainAvail()) == 0 {
			if err := s.deflateRefill(false); err != nil {
				return total, err
			}
		}
		avail := s.deflate.PlainAvail()
		n := copy(avail, p)
		if n == 0 {
			panic("gzstream: deflate refill did not free plaintext buffer space")
		}
		s.deflate.PlainProduce(n)
		p = p[n:]
		total += n
	}
	s.writePos += uint64(total)
	s.stats.PlaintextWritten += uint64(total)
	return total, nil
}

// WriteByte delegates to the bulk Write path, per spec.md §4.3.
func (s *Stream) WriteByte(b byte) error {
	_, err := s.Write([]byte{b})
	return err
}

// deflateRefill moves plaintext already buffered into the deflate engine,
// draining every non-empty compressed span it produces to the downstream
// sink, until a step produces no more output this cycle. final requests
// the terminal flush.
func (s *Stream) deflateRefill(final bool) error {
	for {
		produced, err := s.deflate.Step(final)
		if err != nil {
			return err
		}
		if z := s.deflate.CompressedContents(); len(z) > 0 {
			s.log.Debug("gzstream: draining compressed bytes to downstream", zap.Int("n", len(z)))
			if err := s.writeAllDownstream(z); err != nil {
				return err
			}
			s.deflate.CompressedConsume(len(z))
			s.stats.CompressedWritten += uint64(len(z))
		}
		if produced == 0 {
			return nil
		}
	}
}

func (s *Stream) writeAllDownstream(p []byte) error {
	n, err := s.down.Write(p)
	if err != nil {
		return gzerr.Wrap(gzerr.DownstreamShortWrite, err, "gzstream: downstream write failed")
	}
	if n < len(p) {
		s.log.Warn("gzstream: downstream short write", zap.Int("wanted", len(p)), zap.Int("got", n))
		return gzerr.Wrap(gzerr.DownstreamShortWrite, io.ErrShortWrite, "gzstream: downstream accepted fewer bytes than offered")
	}
	return nil
}

// Sync flushes plaintext already buffered to the downstream sink, without
// forcing the engine to emit the terminal trailer (that would degrade
// compression for whatever comes next). It does not flush bytes the
// engine is still holding internally.
func (s *Stream) Sync() error {
	if !s.mode.has(Writable) {
		return gzerr.New(gzerr.ModeMismatch, "gzstream: Sync on a non-writable stream")
	}
	if s.state != stateOpen {
		return gzerr.New(gzerr.WriteAfterFinal, "gzstream: Sync after FinalFlush or Close")
	}
	return s.deflateRefill(false)
}

// Flush is an alias for Sync, matching the "flushable writer" duck type
// used elsewhere in Go (bufio.Writer, compress/gzip.Writer).
func (s *Stream) Flush() error { return s.Sync() }

// FinalFlush emits the gzip trailer and sticks: further writes error with
// WriteAfterFinal.
func (s *Stream) FinalFlush() error {
	if !s.mode.has(Writable) {
		return gzerr.New(gzerr.ModeMismatch, "gzstream: FinalFlush on a non-writable stream")
	}
	if s.state == stateClosed {
		return gzerr.New(gzerr.WriteAfterFinal, "gzstream: FinalFlush on a closed stream")
	}
	if s.state == stateOpenFinal {
		return nil
	}
	if err := s.deflateRefill(true); err != nil {
		return err
	}
	s.state = stateOpenFinal
	return nil
}

// Read drains up to len(dst) plaintext bytes. If nothing is immediately
// available and the compressed stream has ended, it returns io.EOF —
// Go's io.Reader contract standing in for the C++ origin's
// underflow-sentinel convention (spec.md §4.3 asks the adapter to
// implement whichever contract its host platform uses).
func (s *Stream) Read(dst []byte) (int, error) {
	if !s.mode.has(Readable) {
		return 0, gzerr.New(gzerr.ModeMismatch, "gzstream: Read on a non-readable stream")
	}
	if s.state == stateClosed {
		return 0, gzerr.New(gzerr.ModeMismatch, "gzstream: Read on a closed stream")
	}
	if len(dst) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(dst) {
		if c := s.inflate.PlainContents(); len(c) > 0 {
			copied := copy(dst[n:], c)
			s.inflate.PlainConsume(copied)
			n += copied
			s.readPos += uint64(copied)
			s.stats.PlaintextProduced += uint64(copied)
			continue
		}
		if s.inflate.AtStreamEnd() {
			break
		}
		short, err := s.inflateRefillOnce()
		if err != nil {
			return n, err
		}
		if len(s.inflate.PlainContents()) == 0 && short {
			break
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadByte delegates to the bulk Read path, per spec.md §4.3.
func (s *Stream) ReadByte() (byte, error) {
	var b [1]byte
	n, err := s.Read(b[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return b[0], nil
}

// ReadUntil copies plaintext bytes into dst until n bytes are stored or, if
// checkDelim is true, until delim has been stored (the delimiter is kept in
// the output, even as the first byte). It returns the number of bytes stored.
func (s *Stream) ReadUntil(dst []byte, n int, checkDelim bool, delim byte) (int, error) {
	for nr := 0; nr < n; {
		b, err := s.ReadByte()
		if err != nil {
			return nr, err
		}
		dst[nr] = b
		nr++
		if checkDelim && b == delim {
			return nr, nil
		}
	}
	return n, nil
}

// inflateRefillOnce pulls one chunk of compressed bytes from the
// downstream source (if there's room for more) and drives the inflate
// engine once. short reports whether the downstream read returned fewer
// bytes than requested (including hitting EOF), which the caller uses to
// decide whether it's worth trying again immediately.
func (s *Stream) inflateRefillOnce() (short bool, err error) {
	avail := s.inflate.CompressedAvail()
	if len(avail) > 0 {
		rn, rerr := s.down.Read(avail)
		if rn > 0 {
			s.inflate.CompressedProduce(rn)
			s.stats.CompressedRead += uint64(rn)
		}
		if rerr != nil && rerr != io.EOF {
			return true, gzerr.Wrap(gzerr.DownstreamReadFailed, rerr, "gzstream: downstream read failed")
		}
		if rerr == io.EOF {
			s.inflate.MarkCompressedSourceExhausted()
		}
		short = rn < len(avail)
	} else {
		short = true
	}
	if _, _, err := s.inflate.Step(); err != nil {
		return short, err
	}
	return short, nil
}

// Peek returns up to n bytes of upcoming plaintext without consuming them,
// refilling as needed. It may return fewer than n bytes if the stream ends
// first or if n exceeds the plaintext buffer's capacity.
func (s *Stream) Peek(n int) ([]byte, error) {
	if !s.mode.has(Readable) {
		return nil, gzerr.New(gzerr.ModeMismatch, "gzstream: Peek on a non-readable stream")
	}
	for {
		before := len(s.inflate.PlainContents())
		if before >= n || s.inflate.AtStreamEnd() {
			break
		}
		short, err := s.inflateRefillOnce()
		if err != nil {
			return nil, err
		}
		if len(s.inflate.PlainContents()) == before && short {
			// no progress this round, and downstream had nothing more
			// ready — n exceeds what's reachable right now (possibly
			// more than the plaintext buffer will ever hold).
			break
		}
	}
	c := s.inflate.PlainContents()
	if len(c) > n {
		c = c[:n]
	}
	return c, nil
}

// Discard consumes and discards up to n plaintext bytes without copying
// them out.
func (s *Stream) Discard(n int) (int, error) {
	if !s.mode.has(Readable) {
		return 0, gzerr.New(gzerr.ModeMismatch, "gzstream: Discard on a non-readable stream")
	}
	discarded := 0
	for discarded < n {
		c := s.inflate.PlainContents()
		if len(c) == 0 {
			if s.inflate.AtStreamEnd() {
				break
			}
			short, err := s.inflateRefillOnce()
			if err != nil {
				return discarded, err
			}
			if short && len(s.inflate.PlainContents()) == 0 {
				break
			}
			continue
		}
		take := n - discarded
		if take > len(c) {
			take = len(c)
		}
		s.inflate.PlainConsume(take)
		discarded += take
		s.readPos += uint64(take)
	}
	return discarded, nil
}

// Close flushes the output side (if writable and not already finalized),
// releases the downstream sink/source, zeros the running counters, and
// resets both buffered codecs to empty. Close is idempotent and always
// completes the transition to closed, even if flushing or releasing the
// downstream failed along the way.
func (s *Stream) Close() error {
	if s.state == stateClosed {
		return nil
	}

	var firstErr error
	if s.state == stateOpen && s.mode.has(Writable) {
		if err := s.deflateRefill(true); err != nil {
			firstErr = err
		}
	}
	if s.down != nil {
		if err := s.down.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.down = nil
	}

	s.state = stateClosed
	s.readPos = 0
	s.writePos = 0
	s.stats = Stats{}
	s.inflate.Reset()
	s.deflate.Reset()

	return firstErr
}
