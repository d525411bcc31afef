// Package container implements the byte-level framing GIF and .Z wrap
// their LZW bitstreams in: GIF's length-prefixed sub-blocks, and .Z's bare
// magic-plus-settings header. Everything above the LZW payload — palette,
// screen descriptor, extension blocks, trailer — is the caller's concern;
// this package only locates and frames the bits the lzw package reads and
// writes.
package container

import (
	"errors"
	"io"
)

// ErrMissingTerminator is returned by GIFPayloadReader when the underlying
// source is exhausted before a zero-length sub-block is seen.
var ErrMissingTerminator = errors.New("container: gif payload not terminated by a zero-length sub-block")

// GIFPayloadReader presents a GIF LZW payload's sub-blocks (length byte
// plus up to 255 data bytes, terminated by a zero-length sub-block) as a
// single continuous byte stream. Bit-level splicing across sub-block
// boundaries (spec'd as "low-order bits from the current sub-block,
// high-order bits from the next") falls out for free: GIF sub-blocks are
// whole bytes, so concatenating their payloads verbatim reproduces the
// same little-endian bit sequence a byte-level splice would.
type GIFPayloadReader struct {
	src        io.Reader
	remaining  int
	terminated bool
}

// NewGIFPayloadReader returns a reader over the sub-blocks read from src,
// starting at the first length byte.
func NewGIFPayloadReader(src io.Reader) *GIFPayloadReader {
	return &GIFPayloadReader{src: src}
}

// Terminated reports whether the zero-length sub-block has been consumed.
func (r *GIFPayloadReader) Terminated() bool {
	return r.terminated
}

func (r *GIFPayloadReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if r.terminated {
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		}
		if r.remaining == 0 {
			var lenBuf [1]byte
			if _, err := io.ReadFull(r.src, lenBuf[:]); err != nil {
				if total > 0 {
					return total, nil
				}
				return 0, ErrMissingTerminator
			}
			if lenBuf[0] == 0 {
				r.terminated = true
				continue
			}
			r.remaining = int(lenBuf[0])
		}
		want := len(p) - total
		if want > r.remaining {
			want = r.remaining
		}
		n, err := io.ReadFull(r.src, p[total:total+want])
		total += n
		r.remaining -= n
		if err != nil {
			return total, ErrMissingTerminator
		}
	}
	return total, nil
}

// Finish discards any unread bytes of the current sub-block (the decoder
// may stop reading bits mid sub-block, e.g. right after an end-of-stream
// token) and consumes sub-blocks until the terminator is seen. It reports
// ErrMissingTerminator if the source runs out first.
func (r *GIFPayloadReader) Finish() error {
	for !r.terminated {
		if r.remaining > 0 {
			if _, err := io.CopyN(io.Discard, r.src, int64(r.remaining)); err != nil {
				return ErrMissingTerminator
			}
			r.remaining = 0
			continue
		}
		var lenBuf [1]byte
		if _, err := io.ReadFull(r.src, lenBuf[:]); err != nil {
			return ErrMissingTerminator
		}
		if lenBuf[0] == 0 {
			r.terminated = true
			continue
		}
		r.remaining = int(lenBuf[0])
	}
	return nil
}

// GIFPayloadWriter re-wraps a raw byte stream into GIF sub-blocks of up to
// 255 bytes, terminated by a zero-length sub-block when Close is called.
type GIFPayloadWriter struct {
	dst io.Writer
	buf []byte
}

// NewGIFPayloadWriter returns a writer that frames bytes written to it as
// GIF sub-blocks on dst.
func NewGIFPayloadWriter(dst io.Writer) *GIFPayloadWriter {
	return &GIFPayloadWriter{dst: dst}
}

func (w *GIFPayloadWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for len(w.buf) >= 255 {
		if err := w.flushChunk(255); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *GIFPayloadWriter) flushChunk(n int) error {
	if _, err := w.dst.Write([]byte{byte(n)}); err != nil {
		return err
	}
	if _, err := w.dst.Write(w.buf[:n]); err != nil {
		return err
	}
	w.buf = w.buf[n:]
	return nil
}

// Close flushes any remaining buffered bytes as a final sub-block and
// writes the zero-length terminator.
func (w *GIFPayloadWriter) Close() error {
	if len(w.buf) > 0 {
		if err := w.flushChunk(len(w.buf)); err != nil {
			return err
		}
	}
	_, err := w.dst.Write([]byte{0})
	return err
}
