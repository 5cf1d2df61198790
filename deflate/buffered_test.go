package deflate

import (
	"bytes"
	"testing"
)

// roundTrip drives a DeflateCodec and InflateCodec pair entirely through
// their buffered, bounded-capacity interfaces, writing plaintext in
// writeChunk-sized pieces and reading compressed/decompressed data back in
// readChunk-sized pieces — exercising the refill loops the way the
// byte-stream adapter above this package will.
func roundTrip(t *testing.T, plaintext []byte, plainBufSize, compBufSize, writeChunk, readChunk int) []byte {
	t.Helper()

	enc := NewDeflateCodec(6, plainBufSize, compBufSize)
	var compressed bytes.Buffer

	feed := plaintext
	for len(feed) > 0 {
		n := writeChunk
		if n > len(feed) {
			n = len(feed)
		}
		if n > len(enc.PlainAvail()) {
			n = len(enc.PlainAvail())
		}
		if n == 0 {
			// plaintext buffer is full; drain it before adding more
			if _, err := enc.Step(false); err != nil {
				t.Fatalf("deflate step: %v", err)
			}
			for len(enc.CompressedContents()) > 0 {
				m := readChunk
				if m > len(enc.CompressedContents()) {
					m = len(enc.CompressedContents())
				}
				compressed.Write(enc.CompressedContents()[:m])
				enc.CompressedConsume(m)
			}
			continue
		}
		copy(enc.PlainAvail(), feed[:n])
		enc.PlainProduce(n)
		feed = feed[n:]

		if _, err := enc.Step(false); err != nil {
			t.Fatalf("deflate step: %v", err)
		}
		for len(enc.CompressedContents()) > 0 {
			m := readChunk
			if m > len(enc.CompressedContents()) {
				m = len(enc.CompressedContents())
			}
			compressed.Write(enc.CompressedContents()[:m])
			enc.CompressedConsume(m)
		}
	}
	for {
		produced, err := enc.Step(true)
		if err != nil {
			t.Fatalf("deflate final step: %v", err)
		}
		for len(enc.CompressedContents()) > 0 {
			n := readChunk
			if n > len(enc.CompressedContents()) {
				n = len(enc.CompressedContents())
			}
			compressed.Write(enc.CompressedContents()[:n])
			enc.CompressedConsume(n)
		}
		if produced == 0 {
			break
		}
	}

	dec := NewInflateCodec(compBufSize, plainBufSize)
	var decoded bytes.Buffer
	zfeed := compressed.Bytes()

	for {
		fed := false
		for len(zfeed) > 0 && len(dec.CompressedAvail()) > 0 {
			n := writeChunk
			if n > len(zfeed) {
				n = len(zfeed)
			}
			if n > len(dec.CompressedAvail()) {
				n = len(dec.CompressedAvail())
			}
			copy(dec.CompressedAvail(), zfeed[:n])
			dec.CompressedProduce(n)
			zfeed = zfeed[n:]
			fed = true
		}
		produced, ended, err := dec.Step()
		if err != nil {
			t.Fatalf("inflate step: %v", err)
		}
		for len(dec.PlainContents()) > 0 {
			n := readChunk
			if n > len(dec.PlainContents()) {
				n = len(dec.PlainContents())
			}
			decoded.Write(dec.PlainContents()[:n])
			dec.PlainConsume(n)
		}
		if ended {
			break
		}
		if !fed && produced == 0 && len(zfeed) == 0 {
			t.Fatalf("decode stalled before reaching stream end")
		}
	}

	return decoded.Bytes()
}

func TestRoundTripSmall(t *testing.T) {
	msg := []byte("The quick brown fox jumps over the lazy dog")
	got := roundTrip(t, msg, 4096, 4096, 4096, 4096)
	if !bytes.Equal(got, msg) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, msg)
	}
}

func TestRoundTripMultiChunk(t *testing.T) {
	var payload bytes.Buffer
	for payload.Len() < 128*1024 {
		payload.WriteString("Jabberwocky ")
	}
	msg := payload.Bytes()[:128*1024]

	chunks := []int{1, 16, 129, 65536}
	for _, wc := range chunks {
		for _, rc := range chunks {
			got := roundTrip(t, msg, 4096, 4096, wc, rc)
			if !bytes.Equal(got, msg) {
				t.Fatalf("write=%d read=%d: round trip mismatch (got %d bytes, want %d)", wc, rc, len(got), len(msg))
			}
		}
	}
}

func TestRoundTripBufferSizeOne(t *testing.T) {
	msg := []byte("tiny buffers must still make progress")
	got := roundTrip(t, msg, 1, 1, 1, 1)
	if !bytes.Equal(got, msg) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, msg)
	}
}

func TestDeflateEmptyPlaintextProducesValidFrame(t *testing.T) {
	got := roundTrip(t, nil, 4096, 4096, 4096, 4096)
	if len(got) != 0 {
		t.Fatalf("expected zero decoded bytes, got %d", len(got))
	}
}
