package zfile

import (
	"bytes"
	"testing"

	"github.com/Kreeblah/flexiGIF/lzw"
)

func TestWriteParseRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox "), 200)

	var buf bytes.Buffer
	if err := Write(&buf, &File{Data: data}, lzw.DefaultOptions(lzw.Z)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(f.Data, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(f.Data), len(data))
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte{0, 0, 0})); err == nil {
		t.Fatal("expected an error for bad magic bytes")
	}
}
