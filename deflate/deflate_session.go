package deflate

import (
	"errors"

	"github.com/klauspost/compress/gzip"

	"github.com/andybalholm/gzstream/gzerr"
)

// deflateSession is the codec session (spec.md §4.1) for the compress
// direction. It wraps klauspost/compress/gzip.Writer — a third-party
// DEFLATE engine configured for gzip framing, treated as a black box —
// bridging its push-oriented io.Writer API into the "provide input,
// provide output, step" contract this package's other layers expect.
type deflateSession struct {
	gz     *gzip.Writer
	sink   *scratch
	input  []byte
	nIn    uint64
	nOut   uint64
	closed bool
}

func newDeflateSession(level int) *deflateSession {
	s := &deflateSession{sink: newScratch()}
	gz, err := gzip.NewWriterLevel(s.sink, level)
	if err != nil {
		// The only failure mode is an out-of-range level; fall back to the
		// engine's default rather than propagate a construction-time error
		// for what is, in practice, a programmer mistake.
		gz = gzip.NewWriter(s.sink)
	}
	s.gz = gz
	return s
}

// ProvideInput attaches a new input window. It fails if the engine's
// current input window has not been fully drained, so a caller can never
// silently discard unprocessed input.
func (s *deflateSession) ProvideInput(p []byte) error {
	if len(s.input) != 0 {
		return errors.New("deflate: ProvideInput called with a window still pending")
	}
	s.input = p
	return nil
}

func (s *deflateSession) hasInput() bool { return len(s.input) > 0 }

// hasPendingOutput reports whether the engine has already produced
// compressed bytes that haven't been drained into a caller-supplied output
// span yet.
func (s *deflateSession) hasPendingOutput() bool { return len(s.sink.buf)-s.sink.off > 0 }

// Step drives the engine once. final requests the terminal flush (the gzip
// trailer); it should be set on the call that provides the last byte of
// plaintext, or on a call with no input at all if the plaintext stream was
// already fully consumed.
//
// out is a fresh output window; there is no emptiness precondition on it,
// the caller is responsible for having drained whatever a previous Step
// produced.
func (s *deflateSession) Step(out []byte, final bool) (consumed, produced int, err error) {
	if len(s.input) > 0 {
		n, werr := s.gz.Write(s.input)
		consumed = n
		s.input = s.input[n:]
		s.nIn += uint64(n)
		if werr != nil {
			return consumed, 0, gzerr.Wrap(gzerr.EngineBug, werr, "deflate: engine write failed")
		}
	}
	if final && !s.closed {
		if cerr := s.gz.Close(); cerr != nil {
			return consumed, 0, gzerr.Wrap(gzerr.EngineBug, cerr, "deflate: engine close failed")
		}
		s.closed = true
	}
	produced = s.sink.drain(out)
	s.nOut += uint64(produced)
	return consumed, produced, nil
}

// Rebuild tears down and reinitializes the engine in place, for reuse by a
// buffered codec after a logical reset (object identity of the session is
// preserved; only its engine state is refreshed).
func (s *deflateSession) Rebuild(level int) {
	s.sink = newScratch()
	gz, err := gzip.NewWriterLevel(s.sink, level)
	if err != nil {
		gz = gzip.NewWriter(s.sink)
	}
	s.gz = gz
	s.input = nil
	s.nIn = 0
	s.nOut = 0
	s.closed = false
}

// Totals returns the engine's running consumed/produced byte counters.
func (s *deflateSession) Totals() (nIn, nOut uint64) { return s.nIn, s.nOut }
