package deflate

// scratch is a small growable accumulator used to bridge klauspost's
// push-style io.Writer engine output into the fixed-capacity output spans
// the buffered codec hands out. It stays small in steady state: bytes are
// drained as fast as the caller supplies output space, so the backing
// slice only grows past a single gzip block's worth of data if the caller
// stops asking for output entirely.
type scratch struct {
	buf []byte
	off int
}

func newScratch() *scratch { return &scratch{} }

// Write implements io.Writer, appending p to the accumulator.
func (s *scratch) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// drain copies as much of the accumulated backlog into out as fits,
// compacting the accumulator once it has been fully drained.
func (s *scratch) drain(out []byte) int {
	n := copy(out, s.buf[s.off:])
	s.off += n
	if s.off == len(s.buf) {
		s.buf = s.buf[:0]
		s.off = 0
	}
	return n
}
