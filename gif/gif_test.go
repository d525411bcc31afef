package gif

import (
	"bytes"
	"testing"

	"github.com/Kreeblah/flexiGIF/lzw"
)

// buildMinimalGIF assembles a single-frame GIF with no color table whose
// LZW payload is pixels encoded by lzw.Encode with default options, for
// use as a parser/recompressor fixture. pixels
// must be width*height bytes, each < 1<<minCodeSize.
func buildMinimalGIF(t *testing.T, width, height, minCodeSize int, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("GIF89a")
	buf.Write([]byte{byte(width), byte(width >> 8), byte(height), byte(height >> 8), 0, 0, 0})

	buf.WriteByte(0x2C) // image separator
	buf.Write([]byte{0, 0, 0, 0, byte(width), byte(width >> 8), byte(height), byte(height >> 8), 0})
	buf.WriteByte(byte(minCodeSize))

	opts := lzw.DefaultOptions(lzw.GIF)
	opts.MinCodeSize = minCodeSize
	w, err := lzw.Encode(pixels, opts)
	if err != nil {
		t.Fatalf("encode fixture payload: %v", err)
	}
	bits := w.Bytes()
	for len(bits) > 0 {
		n := len(bits)
		if n > 255 {
			n = 255
		}
		buf.WriteByte(byte(n))
		buf.Write(bits[:n])
		bits = bits[n:]
	}
	buf.WriteByte(0)
	buf.WriteByte(0x3B)
	return buf.Bytes()
}

func TestParseAndRecompressRoundTrip(t *testing.T) {
	pixels := make([]byte, 100)
	for i := range pixels {
		pixels[i] = byte(i % 3)
	}
	raw := buildMinimalGIF(t, 10, 10, 2, pixels)

	img, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	frames := img.Frames()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if !bytes.Equal(frames[0].IndexStream, pixels) {
		t.Fatalf("decoded index stream mismatch")
	}

	var out bytes.Buffer
	if err := Recompress(&out, img, lzw.DefaultOptions(lzw.GIF)); err != nil {
		t.Fatalf("Recompress: %v", err)
	}

	img2, err := Parse(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("re-parse recompressed output: %v", err)
	}
	if !bytes.Equal(img2.Frames()[0].IndexStream, pixels) {
		t.Fatalf("recompressed index stream mismatch")
	}
}

func TestParseRejectsBadSignature(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte("NOTAGIFxx"))); err == nil {
		t.Fatal("expected an error for a bad signature")
	}
}
