package deflate

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/andybalholm/gzstream/gzerr"
)

// errNeedMoreInput is returned by pullReader when its currently attached
// window is exhausted. It is deliberately distinct from io.EOF, so the
// wrapped engine never mistakes "no more input has arrived yet" for
// "the compressed stream has ended".
var errNeedMoreInput = errors.New("deflate: need more input")

// pullReader exposes a currently-attached input span as an io.Reader. Once
// depleted is set, an empty window means the compressed source has
// genuinely ended rather than merely having nothing pending right now, so
// Read reports the real io.EOF instead of the "need more input" sentinel —
// this is what lets an incomplete gzip trailer surface as a real error
// instead of looking like an ordinary short read.
type pullReader struct {
	window   []byte
	depleted bool
}

func (p *pullReader) Read(dst []byte) (int, error) {
	if len(p.window) == 0 {
		if p.depleted {
			return 0, io.EOF
		}
		return 0, errNeedMoreInput
	}
	n := copy(dst, p.window)
	p.window = p.window[n:]
	return n, nil
}

// inflateSession is the codec session (spec.md §4.1) for the decompress
// direction. klauspost/compress's gzip.Reader and zlib.Reader are
// pull-style io.Readers rather than zlib's native span-based API, so this
// type bridges the two: a persistent pullReader stands in for the
// "pending input" window, and header/format detection is buffered and
// retried across Step calls until enough bytes have arrived to construct
// the underlying engine — this is what lets a one-byte buffer still work.
type inflateSession struct {
	src       *pullReader
	headerBuf []byte
	reader    io.Reader // *gzip.Reader or *zlib.Reader, once established
	done      bool
	nIn       uint64
	nOut      uint64
}

func newInflateSession() *inflateSession {
	return &inflateSession{src: &pullReader{}}
}

// ProvideInput attaches a new input window. It fails if the engine's
// current input window has not been fully drained.
func (s *inflateSession) ProvideInput(p []byte) error {
	if len(s.src.window) != 0 {
		return errors.New("inflate: ProvideInput called with a window still pending")
	}
	s.src.window = p
	return nil
}

func (s *inflateSession) hasInput() bool { return len(s.src.window) > 0 }

// MarkExhausted records that the compressed source has permanently ended:
// no further ProvideInput call will ever arrive. It lets a truncated
// stream (one that ends mid-header or mid-trailer) surface as a real
// io.EOF/io.ErrUnexpectedEOF from the engine instead of stalling forever
// on the "need more input" sentinel.
func (s *inflateSession) MarkExhausted() { s.src.depleted = true }

// Step drives the engine once, decoding into out. See the package-level
// stepStatus constants for how "need more input" and "end of stream" are
// distinguished from real errors.
func (s *inflateSession) Step(out []byte) (consumed, produced int, status stepStatus, err error) {
	before := len(s.src.window)

	if s.reader == nil {
		if err := s.tryEstablish(); err != nil {
			return before - len(s.src.window), 0, stepError, err
		}
		if s.reader == nil {
			consumed = before - len(s.src.window)
			s.nIn += uint64(consumed)
			return consumed, 0, stepNeedInput, nil
		}
	}

	if s.done {
		consumed = before - len(s.src.window)
		s.nIn += uint64(consumed)
		return consumed, 0, stepStreamEnd, nil
	}

	n, rerr := s.reader.Read(out)
	produced = n
	s.nOut += uint64(n)
	consumed = before - len(s.src.window)
	s.nIn += uint64(consumed)

	switch {
	case rerr == nil:
		return consumed, produced, stepOK, nil
	case errors.Is(rerr, io.EOF):
		s.done = true
		return consumed, produced, stepStreamEnd, nil
	case errors.Is(rerr, errNeedMoreInput):
		return consumed, produced, stepNeedInput, nil
	default:
		return consumed, produced, stepError, gzerr.Wrap(gzerr.CorruptedInput, rerr, "inflate: engine read failed")
	}
}

// tryEstablish drains whatever input is currently pending into the header
// accumulator (so a failed construction attempt never strands unreplayable
// bytes in the live pull reader) and attempts to construct the underlying
// engine by sniffing the gzip/zlib magic bytes. It leaves s.reader nil,
// with no error, if there simply isn't enough data yet.
func (s *inflateSession) tryEstablish() error {
	if len(s.src.window) > 0 {
		s.headerBuf = append(s.headerBuf, s.src.window...)
		s.src.window = nil
	}
	if len(s.headerBuf) < 2 {
		if s.src.depleted {
			return gzerr.New(gzerr.CorruptedInput, "inflate: compressed source ended before a header could be read")
		}
		return nil
	}

	replay := io.MultiReader(bytes.NewReader(s.headerBuf), s.src)

	var (
		r   io.Reader
		err error
	)
	switch {
	case s.headerBuf[0] == 0x1f && s.headerBuf[1] == 0x8b:
		var gr *gzip.Reader
		if gr, err = gzip.NewReader(replay); err == nil {
			// Report end of stream once this member's trailer is validated,
			// instead of waiting for the header of a further member.
			gr.Multistream(false)
			r = gr
		}
	case looksLikeZlib(s.headerBuf):
		r, err = zlib.NewReader(replay)
	default:
		return gzerr.New(gzerr.CorruptedInput, "inflate: input is neither gzip- nor zlib-framed")
	}
	if err != nil {
		if errors.Is(err, errNeedMoreInput) {
			return nil
		}
		return gzerr.Wrap(gzerr.CorruptedInput, err, "inflate: failed to parse compressed stream header")
	}
	s.reader = r
	return nil
}

// looksLikeZlib reports whether the first two bytes look like a zlib
// header: CM (low nibble of byte 0) must be 8 (deflate), and the two
// header bytes read as a big-endian uint16 must be a multiple of 31 (the
// FCHECK invariant RFC 1950 requires).
func looksLikeZlib(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	if b[0]&0x0f != 8 {
		return false
	}
	return (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// Totals returns the engine's running consumed/produced byte counters.
func (s *inflateSession) Totals() (nIn, nOut uint64) { return s.nIn, s.nOut }

// stepStatus classifies the outcome of a Step call on the inflate session,
// standing in for zlib's OK/STREAM_END/BUF_ERROR return codes (spec.md
// §4.1) in a form that fits Go's (value, error) idiom.
type stepStatus int

const (
	stepOK stepStatus = iota
	stepNeedInput
	stepStreamEnd
	stepError
)
