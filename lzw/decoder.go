package lzw

import (
	"github.com/Kreeblah/flexiGIF/bitio"
)

// entry is a decoder-side dictionary record: the code expands to the
// expansion of previous (or nothing, if previous < 0) followed by last.
type entry struct {
	previous int
	last     byte
	length   int
}

// Decode reads codeSize-bit LZW tokens from r and returns the decoded
// index stream. flavor and minCodeSize determine the reserved codes,
// restart padding rules, and code-width ceiling; maxCodeSize caps code
// growth (12 for GIF, up to 16 for .Z).
func Decode(r *bitio.Reader, flavor Flavor, minCodeSize, maxCodeSize int) ([]byte, error) {
	const op = "Decode"

	clear := 1 << minCodeSize
	var endOfStream int
	if flavor.HasEndOfStream() {
		endOfStream = clear + 1
	} else {
		endOfStream = -1
	}

	var dict []entry
	resetDict := func() {
		dict = make([]entry, 0, 1<<maxCodeSize)
		for b := 0; b < clear; b++ {
			dict = append(dict, entry{previous: -1, last: byte(b), length: 1})
		}
		dict = append(dict, entry{}) // clear code placeholder
		if flavor.HasEndOfStream() {
			dict = append(dict, entry{}) // end-of-stream placeholder
		}
	}
	resetDict()

	codeSize := minCodeSize + 1
	maxToken := 1 << maxCodeSize

	var out []byte
	expand := func(code int) []byte {
		var tmp []byte
		for code >= 0 {
			e := dict[code]
			tmp = append(tmp, e.last)
			code = e.previous
		}
		// tmp was built last-byte-first; reverse it.
		for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
			tmp[i], tmp[j] = tmp[j], tmp[i]
		}
		return tmp
	}

	prevToken := -1
	tokensInBlock := 0

	// Skip any leading clear codes before the first real token, as the
	// original decoder does.
	for {
		token, err := r.Get(uint8(codeSize))
		if err != nil {
			return nil, newError(op, TruncatedInput, err)
		}
		if int(token) == clear {
			resetDict()
			codeSize = minCodeSize + 1
			tokensInBlock = 0
			continue
		}
		prevToken = int(token)
		if prevToken >= len(dict) {
			return nil, newError(op, InvalidToken, nil)
		}
		out = append(out, expand(prevToken)...)
		tokensInBlock++
		break
	}

	for {
		if flavor == Z {
			// .Z has no end-of-stream marker: decoding stops cleanly
			// when the byte source runs out rather than failing.
			if _, err := r.Peek(uint8(codeSize)); err != nil {
				break
			}
		}
		token, err := r.Get(uint8(codeSize))
		if err != nil {
			return nil, newError(op, TruncatedInput, err)
		}
		code := int(token)

		if code == clear {
			oldCodeSize := codeSize
			resetDict()
			codeSize = minCodeSize + 1
			if flavor == Z {
				if _, err := r.SkipToByteBoundary(); err != nil {
					return nil, newError(op, TruncatedInput, err)
				}
				gap := (8 - (tokensInBlock+1)%8) % 8
				for i := 0; i < gap; i++ {
					if _, err := r.Get(uint8(oldCodeSize)); err != nil {
						return nil, newError(op, TruncatedInput, err)
					}
				}
			}
			tokensInBlock = 0
			prevToken = -1
			continue
		}

		if flavor.HasEndOfStream() && code == endOfStream {
			break
		}

		switch {
		case code < len(dict):
			expansion := expand(code)
			out = append(out, expansion...)
			if prevToken >= 0 && len(dict) < maxToken {
				dict = append(dict, entry{
					previous: prevToken,
					last:     expansion[0],
					length:   dict[prevToken].length + 1,
				})
			}
		case code == len(dict):
			if prevToken < 0 || len(dict) >= maxToken {
				return nil, newError(op, InvalidToken, nil)
			}
			prevExpansion := expand(prevToken)
			firstByte := prevExpansion[0]
			out = append(out, prevExpansion...)
			out = append(out, firstByte)
			dict = append(dict, entry{
				previous: prevToken,
				last:     firstByte,
				length:   dict[prevToken].length + 1,
			})
		default:
			return nil, newError(op, InvalidToken, nil)
		}

		tokensInBlock++
		prevToken = code

		if len(dict) == 1<<codeSize && codeSize < maxCodeSize {
			codeSize++
		}
		if len(dict) >= maxToken {
			// Dictionary is full and frozen; .Z keeps decoding at
			// maxCodeSize until the next clear code.
			codeSize = maxCodeSize
		}
	}

	return out, nil
}
