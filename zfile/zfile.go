// Package zfile reads and writes Unix compress(1) .Z files: a three-byte
// header (magic plus settings) followed by a raw, unframed LZW bitstream.
package zfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Kreeblah/flexiGIF/bitio"
	"github.com/Kreeblah/flexiGIF/container"
	"github.com/Kreeblah/flexiGIF/lzw"
)

// File is a parsed .Z file: its settings and the decoded byte stream.
type File struct {
	MaxCodeSize int
	Data        []byte
}

// Parse reads a complete .Z file from r.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zfile: read: %w", err)
	}
	br := bytes.NewReader(data)

	hdr, err := container.ReadZHeader(br)
	if err != nil {
		return nil, err
	}

	bitReader := bitio.NewReader(br)
	decoded, err := lzw.Decode(bitReader, lzw.Z, 8, hdr.MaxCodeSize)
	if err != nil {
		return nil, fmt.Errorf("zfile: lzw decode: %w", err)
	}

	return &File{MaxCodeSize: hdr.MaxCodeSize, Data: decoded}, nil
}

// Write recompresses f.Data with opts and writes a complete .Z file to w.
func Write(w io.Writer, f *File, opts lzw.Options) error {
	opts.Flavor = lzw.Z
	opts.MinCodeSize = 8
	if opts.MaxCodeSize == 0 {
		opts.MaxCodeSize = f.MaxCodeSize
	}
	if opts.MaxCodeSize == 0 {
		opts.MaxCodeSize = 16
	}

	if err := container.WriteZHeader(w, opts.MaxCodeSize); err != nil {
		return err
	}

	bits, err := lzw.Encode(f.Data, opts)
	if err != nil {
		return fmt.Errorf("zfile: lzw encode: %w", err)
	}
	_, err = w.Write(bits.Bytes())
	return err
}
