package bitio

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWriterPacksLittleEndian(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b101, 3)
	w.WriteBits(0b1, 1)
	w.WriteBits(0, 4)
	got := w.Bytes()
	want := []byte{0b00001101}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got[0], want[0])
	}
}

func TestWriterCrossesByteBoundary(t *testing.T) {
	w := NewWriter()
	// 12-bit fields, GIF-style code widths.
	w.WriteBits(0x0ABC&0xFFF, 12)
	w.WriteBits(0x0123&0xFFF, 12)
	got := w.Bytes()
	if len(got) != 3 {
		t.Fatalf("expected 3 bytes, got %d", len(got))
	}
	r := NewReader(bytes.NewReader(got))
	v1, err := r.Get(12)
	if err != nil || v1 != 0x0ABC {
		t.Fatalf("v1 = %#x, err = %v", v1, err)
	}
	v2, err := r.Get(12)
	if err != nil || v2 != 0x0123 {
		t.Fatalf("v2 = %#x, err = %v", v2, err)
	}
}

func TestReaderPeekIsIdempotent(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xF0}))
	a, err := r.Peek(4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Peek(4)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || a != 0 {
		t.Fatalf("peek not idempotent: a=%d b=%d", a, b)
	}
	if err := r.Consume(4); err != nil {
		t.Fatal(err)
	}
	c, err := r.Get(4)
	if err != nil || c != 0xF {
		t.Fatalf("c = %#x, err = %v", c, err)
	}
}

func TestReaderUnexpectedEnd(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	if _, err := r.Get(16); err != ErrUnexpectedEnd {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
}

func TestReaderBitsLeft(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xF0, 0x0F}))
	if _, err := r.Get(4); err != nil {
		t.Fatal(err)
	}
	left, err := r.BitsLeft()
	if err != nil {
		t.Fatal(err)
	}
	if left != 12 {
		t.Fatalf("BitsLeft = %d, want 12", left)
	}
	// BitsLeft must not disturb subsequent reads.
	v, err := r.Get(12)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFF {
		t.Fatalf("Get after BitsLeft = %#x, want 0xff", v)
	}
}

func TestRoundTripRandomBitFields(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := NewWriter()
	var widths []uint8
	var values []uint32
	for i := 0; i < 2000; i++ {
		width := uint8(1 + rng.Intn(16))
		value := uint32(rng.Intn(1 << width))
		widths = append(widths, width)
		values = append(values, value)
		w.WriteBits(value, width)
	}
	r := NewReader(bytes.NewReader(w.Bytes()))
	for i, width := range widths {
		got, err := r.Get(width)
		if err != nil {
			t.Fatalf("field %d: %v", i, err)
		}
		if got != values[i] {
			t.Fatalf("field %d: got %d, want %d", i, got, values[i])
		}
	}
}
