package gif

import "errors"

// ErrMultiFrameInterlace is returned by SetInterlacing for any GIF with
// more than one frame. The original tool's interlace toggle is documented
// as broken for animations; rather than reproduce that silently, this
// port refuses the operation outright (multi-frame interlacing is left an
// open question).
var ErrMultiFrameInterlace = errors.New("gif: interlace toggle is only supported for single-frame images")

// interlacePassStarts and interlacePassSteps describe GIF's four-pass row
// order: every 8th row starting at 0, every 8th starting at 4, every 4th
// starting at 2, every 2nd starting at 1.
var interlacePassStarts = [4]int{0, 4, 2, 1}
var interlacePassSteps = [4]int{8, 8, 4, 2}

// interlacedRowOrder returns, for an image of the given height, the row
// index that should occupy each position 0..height-1 of the interlaced
// stream.
func interlacedRowOrder(height int) []int {
	order := make([]int, 0, height)
	for pass := 0; pass < 4; pass++ {
		for row := interlacePassStarts[pass]; row < height; row += interlacePassSteps[pass] {
			order = append(order, row)
		}
	}
	return order
}

// deinterlaceRows reorders rows from interlaced pass order back into
// top-to-bottom order.
func deinterlaceRows(rows [][]byte, height int) [][]byte {
	order := interlacedRowOrder(height)
	out := make([][]byte, height)
	for i, row := range rows {
		out[order[i]] = row
	}
	return out
}

// interlaceRows reorders rows from top-to-bottom order into interlaced
// pass order.
func interlaceRows(rows [][]byte, height int) [][]byte {
	order := interlacedRowOrder(height)
	out := make([][]byte, height)
	for i, srcRow := range order {
		out[i] = rows[srcRow]
	}
	return out
}

// splitRows splits a flat index stream into height rows of width bytes
// each.
func splitRows(data []byte, width, height int) [][]byte {
	rows := make([][]byte, height)
	for i := 0; i < height; i++ {
		rows[i] = data[i*width : (i+1)*width]
	}
	return rows
}

func joinRows(rows [][]byte) []byte {
	out := make([]byte, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// SetInterlacing toggles f's row order and its interlace bit to match
// want. It's a no-op if f is already in the requested state. img is only
// consulted to enforce the single-frame restriction.
func SetInterlacing(img *Image, f *Frame, want bool) error {
	if len(img.Frames()) > 1 {
		return ErrMultiFrameInterlace
	}
	if f.Interlaced == want {
		return nil
	}
	if f.Width == 0 || f.Height*f.Width != len(f.IndexStream) {
		return errors.New("gif: frame dimensions don't match index stream length")
	}

	rows := splitRows(f.IndexStream, f.Width, f.Height)
	var reordered [][]byte
	if want {
		reordered = interlaceRows(rows, f.Height)
	} else {
		reordered = deinterlaceRows(rows, f.Height)
	}
	f.IndexStream = joinRows(reordered)
	f.Interlaced = want

	if f.interlaceBitOffset > 0 && f.interlaceBitOffset < len(f.RawHeader) {
		if want {
			f.RawHeader[f.interlaceBitOffset] |= 0x40
		} else {
			f.RawHeader[f.interlaceBitOffset] &^= 0x40
		}
	}
	return nil
}
