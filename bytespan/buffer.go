package bytespan

// Buffer owns a fixed-capacity byte block and tracks a single contiguous
// occupied region [loPos, hiPos). It never wraps around: once the region
// reaches the end of the block, the caller must drain it before more can be
// produced.
//
//	  .buf
//
//	    +------------------------------------------+
//	    |          |    XXXXXXXXXX    |             |
//	    +------------------------------------------+
//	     ^          ^                 ^              ^
//	     0          loPos             hiPos           cap
//
// After a Consume that empties the buffer, both indices reset to 0 so the
// full capacity becomes available again — this is the "compact on empty"
// property the pipeline above Buffer relies on to run in bounded memory.
type Buffer struct {
	buf   []byte
	owner bool
	loPos int
	hiPos int
}

// NewBuffer allocates a buffer with the given capacity.
func NewBuffer(cap int) *Buffer {
	b := &Buffer{}
	if cap > 0 {
		b.Alloc(cap, 1)
	}
	return b
}

// Alloc lazily allocates cap bytes of storage, rounding up to the nearest
// multiple of align if align > 1. Any existing storage is discarded first.
func (b *Buffer) Alloc(cap int, align int) {
	b.Reset()
	if align > 1 {
		if r := cap % align; r != 0 {
			cap += align - r
		}
	}
	b.buf = make([]byte, cap)
	b.owner = true
}

// SetExternal adopts a non-owned buffer, used when a caller wants to pin
// storage it manages itself. Any existing storage is discarded first.
func (b *Buffer) SetExternal(buf []byte) {
	b.Reset()
	b.buf = buf
	b.owner = false
}

// Cap returns the buffer's total capacity.
func (b *Buffer) Cap() int { return len(b.buf) }

// Empty reports whether the occupied region is empty.
func (b *Buffer) Empty() bool { return b.loPos == b.hiPos }

// Contents returns the occupied region [loPos, hiPos).
func (b *Buffer) Contents() Span { return b.buf[b.loPos:b.hiPos] }

// Avail returns the writable region [hiPos, cap).
func (b *Buffer) Avail() Span { return b.buf[b.hiPos:len(b.buf)] }

// Produce records that n bytes have been written into Avail(), starting at
// its base. It panics if n exceeds the available space — the same contract
// violation the C++ origin asserts on.
func (b *Buffer) Produce(n int) {
	if n < 0 || b.hiPos+n > len(b.buf) {
		panic("bytespan: Produce overruns buffer's avail() space")
	}
	b.hiPos += n
}

// Consume records that n bytes have been read out of Contents(), starting
// at its base. n == 0 is a no-op except that, if the buffer is already
// fully drained, it still performs the index reset described on Buffer.
func (b *Buffer) Consume(n int) {
	if n < 0 || b.loPos+n > b.hiPos {
		panic("bytespan: Consume overruns buffer's contents() space")
	}
	b.loPos += n
	if b.loPos == b.hiPos {
		b.loPos = 0
		b.hiPos = 0
	}
}

// ClearToEmpty resets the occupied region to empty. If zero is true, the
// backing storage is also scrubbed; this is offered as a hygiene best
// effort only, with no cryptographic-erasure guarantee.
func (b *Buffer) ClearToEmpty(zero bool) {
	if zero {
		for i := range b.buf {
			b.buf[i] = 0
		}
	}
	b.loPos = 0
	b.hiPos = 0
}

// Swap exchanges the storage of b and x.
func (b *Buffer) Swap(x *Buffer) {
	*b, *x = *x, *b
}

// Reset releases the buffer's storage (if owned) and returns it to its
// zero-value state.
func (b *Buffer) Reset() {
	b.buf = nil
	b.owner = false
	b.loPos = 0
	b.hiPos = 0
}
