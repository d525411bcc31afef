package lzw

import "github.com/Kreeblah/flexiGIF/bitio"

// Encode runs the shortest-path block optimizer over data and replays the
// winning plan into a little-endian bitstream. The returned writer holds
// only the LZW token bits; GIF sub-block framing or .Z's bare byte layout
// is the caller's job (see the container, gif, and zfile packages).
func Encode(data []byte, opts Options) (*bitio.Writer, error) {
	const op = "Encode"
	w := bitio.NewWriter()

	if opts.Flavor == GIF && opts.StartWithClearCode {
		w.WriteBits(uint32(opts.clearCode()), uint8(opts.MinCodeSize+1))
	}

	if len(data) == 0 {
		if opts.Flavor == GIF {
			w.WriteBits(uint32(opts.endOfStreamCode()), uint8(opts.MinCodeSize+1))
		}
		return w, nil
	}

	restarts, err := optimize(data, opts)
	if err != nil {
		return nil, err
	}

	logf(opts.Logger, "encode: %d bytes, %d blocks", len(data), len(restarts)-1)

	for idx := 0; idx+1 < len(restarts); idx++ {
		s, e := restarts[idx], restarts[idx+1]
		isFinal := e == len(data)
		if err := emitBlock(w, data, s, e, opts, isFinal); err != nil {
			return nil, newError(op, Internal, err)
		}
	}

	return w, nil
}

// emitBlock replays the same deterministic match search simulateArcsFrom
// used, but writes tokens to w and follows the block with its restart (or
// end-of-stream) code and any .Z padding.
func emitBlock(w *bitio.Writer, data []byte, s, e int, opts Options, isFinal bool) error {
	st := newSimState(data, opts)
	i := s
	for i < e {
		remainingCap := len(data) - i
		pl := st.matcher.plan(i, remainingCap)
		code, _ := st.matcher.findMatch(i, pl.length)

		w.WriteBits(uint32(code), uint8(st.codeSize))
		st.tokensInBlock++

		next := i + pl.length
		if next < len(data) && st.dictSize < opts.maxDictionary() {
			st.dict.addChild(code, data[next], st.dictSize)
			st.dictSize++
		}
		// The decoder adds no entry for a block's first token, so it holds
		// baseDictSize+tokensInBlock-1 entries here; widen when it does.
		if opts.baseDictSize()+st.tokensInBlock-1 == 1<<st.codeSize && st.codeSize < opts.MaxCodeSize {
			st.codeSize++
		}
		i = next
	}

	closeWidth := st.codeSize

	if opts.Flavor == GIF {
		if isFinal {
			w.WriteBits(uint32(opts.endOfStreamCode()), uint8(closeWidth))
		} else {
			w.WriteBits(uint32(opts.clearCode()), uint8(closeWidth))
		}
		return nil
	}

	// .Z
	if isFinal {
		return nil
	}
	w.WriteBits(uint32(opts.clearCode()), uint8(closeWidth))
	w.PadToByte()
	gap := (8 - (st.tokensInBlock+1)%8) % 8
	w.WriteZeros(st.codeSize * gap)
	return nil
}
