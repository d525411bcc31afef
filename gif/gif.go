// Package gif parses and re-serializes the GIF container around the LZW
// payload: signature, logical screen descriptor, color tables, extension
// blocks, image descriptors, and the trailer. Everything outside each
// frame's LZW bitstream is retained verbatim and replayed byte-for-byte;
// only the lzw package's recompression touches the pixel data.
package gif

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Kreeblah/flexiGIF/bitio"
	"github.com/Kreeblah/flexiGIF/container"
	"github.com/Kreeblah/flexiGIF/lzw"
)

const (
	extensionIntroducer = 0x21
	imageSeparator      = 0x2C
	trailer             = 0x3B
)

// Frame is one GIF image, carrying the opaque bytes that precede its LZW
// payload (image descriptor, optional local color table, code size byte)
// verbatim, plus the decoded index stream for recompression.
type Frame struct {
	RawHeader    []byte // everything from the image separator through the minCodeSize byte
	MinCodeSize  int
	IndexStream  []byte
	Width        int
	Height       int
	Interlaced   bool
	interlaceBitOffset int // byte offset of the packed-fields byte within RawHeader
}

// Block is an opaque span of bytes between frames — extension blocks and
// any bytes preceding the first frame or following the last — copied
// through unchanged.
type Block struct {
	Bytes []byte
}

// Image is a parsed GIF: a signature/logical-screen-descriptor header,
// an interleaving of opaque Blocks and Frames in file order, and the
// trailer byte.
type Image struct {
	Header  []byte // signature through global color table, inclusive
	Items   []interface{} // *Block or *Frame, in file order
	Trailer byte
}

// Parse reads a complete GIF file from r.
func Parse(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gif: read: %w", err)
	}
	br := bytes.NewReader(data)

	var sig [6]byte
	if _, err := io.ReadFull(br, sig[:]); err != nil {
		return nil, container.ErrBadMagic
	}
	if string(sig[:3]) != "GIF" {
		return nil, container.ErrBadMagic
	}

	var lsd [7]byte
	if _, err := io.ReadFull(br, lsd[:]); err != nil {
		return nil, fmt.Errorf("gif: logical screen descriptor: %w", err)
	}
	header := append(append([]byte{}, sig[:]...), lsd[:]...)

	if lsd[4]&0x80 != 0 {
		size := 3 * (1 << ((lsd[4] & 0x07) + 1))
		gct := make([]byte, size)
		if _, err := io.ReadFull(br, gct); err != nil {
			return nil, fmt.Errorf("gif: global color table: %w", err)
		}
		header = append(header, gct...)
	}

	img := &Image{Header: header}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("gif: unexpected end before trailer: %w", err)
		}
		switch b {
		case trailer:
			img.Trailer = trailer
			return img, nil
		case imageSeparator:
			f, err := parseFrame(br)
			if err != nil {
				return nil, err
			}
			img.Items = append(img.Items, f)
		case extensionIntroducer:
			raw, err := readExtension(br)
			if err != nil {
				return nil, err
			}
			img.Items = append(img.Items, &Block{Bytes: raw})
		default:
			return nil, fmt.Errorf("gif: unexpected block introducer 0x%02X", b)
		}
	}
}

func readExtension(br *bytes.Reader) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(extensionIntroducer)
	label, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: extension label: %w", err)
	}
	buf.WriteByte(label)
	for {
		lenByte, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("gif: extension sub-block: %w", err)
		}
		buf.WriteByte(lenByte)
		if lenByte == 0 {
			return buf.Bytes(), nil
		}
		chunk := make([]byte, lenByte)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, fmt.Errorf("gif: extension sub-block data: %w", err)
		}
		buf.Write(chunk)
	}
}

func parseFrame(br *bytes.Reader) (*Frame, error) {
	var desc [9]byte
	if _, err := io.ReadFull(br, desc[:]); err != nil {
		return nil, fmt.Errorf("gif: image descriptor: %w", err)
	}
	header := append([]byte{imageSeparator}, desc[:]...)

	width := int(desc[4]) | int(desc[5])<<8
	height := int(desc[6]) | int(desc[7])<<8
	packed := desc[8]
	interlaced := packed&0x40 != 0

	if packed&0x80 != 0 {
		size := 3 * (1 << ((packed & 0x07) + 1))
		lct := make([]byte, size)
		if _, err := io.ReadFull(br, lct); err != nil {
			return nil, fmt.Errorf("gif: local color table: %w", err)
		}
		header = append(header, lct...)
	}

	minCodeSize, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gif: lzw min code size: %w", err)
	}
	header = append(header, minCodeSize)

	payloadReader := container.NewGIFPayloadReader(br)
	bitReader := bitio.NewReader(payloadReader)
	indexStream, err := lzw.Decode(bitReader, lzw.GIF, int(minCodeSize), 12)
	if err != nil {
		return nil, fmt.Errorf("gif: frame lzw decode: %w", err)
	}
	if err := payloadReader.Finish(); err != nil {
		return nil, lzw.ErrBadRestartFraming
	}
	if len(indexStream) == 0 {
		return nil, lzw.ErrTruncatedInput
	}

	return &Frame{
		RawHeader:          header,
		MinCodeSize:         int(minCodeSize),
		IndexStream:         indexStream,
		Width:               width,
		Height:              height,
		Interlaced:          interlaced,
		interlaceBitOffset:  1 + 8, // packed fields byte is desc[8], after the 1-byte separator + 8-byte descriptor
	}, nil
}

// Write serializes img, recompressing every frame's index stream with
// opts via lzw.Encode.
func Write(w io.Writer, img *Image, opts lzw.Options) error {
	if _, err := w.Write(img.Header); err != nil {
		return err
	}
	for _, item := range img.Items {
		switch v := item.(type) {
		case *Block:
			if _, err := w.Write(v.Bytes); err != nil {
				return err
			}
		case *Frame:
			if err := writeFrame(w, v, opts); err != nil {
				return err
			}
		default:
			return fmt.Errorf("gif: unknown item type %T", v)
		}
	}
	_, err := w.Write([]byte{trailer})
	return err
}

func writeFrame(w io.Writer, f *Frame, opts lzw.Options) error {
	if _, err := w.Write(f.RawHeader); err != nil {
		return err
	}
	frameOpts := opts
	frameOpts.Flavor = lzw.GIF
	frameOpts.MinCodeSize = f.MinCodeSize
	if frameOpts.MaxCodeSize == 0 {
		frameOpts.MaxCodeSize = 12
	}
	bits, err := lzw.Encode(f.IndexStream, frameOpts)
	if err != nil {
		return fmt.Errorf("gif: frame lzw encode: %w", err)
	}
	sub := container.NewGIFPayloadWriter(w)
	if _, err := sub.Write(bits.Bytes()); err != nil {
		return err
	}
	return sub.Close()
}

// Frames returns every *Frame in img, in file order.
func (img *Image) Frames() []*Frame {
	var out []*Frame
	for _, item := range img.Items {
		if f, ok := item.(*Frame); ok {
			out = append(out, f)
		}
	}
	return out
}
