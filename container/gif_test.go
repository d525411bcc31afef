package container

import (
	"bytes"
	"io"
	"testing"
)

func TestGIFPayloadRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 600) // spans multiple 255-byte sub-blocks

	var buf bytes.Buffer
	w := NewGIFPayloadWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := NewGIFPayloadReader(&buf)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestGIFPayloadMissingTerminator(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{3, 1, 2, 3}) // one sub-block, no terminator

	r := NewGIFPayloadReader(&buf)
	if _, err := io.ReadAll(r); err != ErrMissingTerminator {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestZHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteZHeader(&buf, 16); err != nil {
		t.Fatal(err)
	}
	hdr, err := ReadZHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.MaxCodeSize != 16 || !hdr.BlockMode {
		t.Fatalf("got %+v", hdr)
	}
}

func TestZHeaderBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00, 0x00, 0x80})
	if _, err := ReadZHeader(buf); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
