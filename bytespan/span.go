// Package bytespan provides the low-level, allocation-free building blocks
// for the buffered codec pipeline: non-owning byte spans and fixed-capacity
// byte buffers with a single contiguous occupied region.
package bytespan

// Span is a non-owning view over a contiguous byte range. Go slices already
// carry a pointer, a length and a capacity, so a Span is simply a slice: no
// wrapper struct is needed to get "lo/hi into an externally owned array"
// semantics. Element-type reinterpretation (present in the C++ origin of
// this design) is deliberately not offered here; the plaintext side of this
// package is fixed to bytes, per the design note in spec.md §9.
type Span = []byte

// Size returns the number of bytes in s.
func Size(s Span) int { return len(s) }

// Empty reports whether s has zero length.
func Empty(s Span) bool { return len(s) == 0 }

// Prefix returns the first n bytes of s. It panics if n exceeds len(s), the
// same way slicing does.
func Prefix(s Span, n int) Span { return s[:n] }
