package lzw

import "github.com/dchest/siphash"

// dictionary is the encoder-side child table: dictionary.child(code, b)
// returns the code that extends code by byte b, or unknownCode if no such
// code has been allocated yet. Two representations satisfy the same
// interface: arrayDictionary (a flat [256]int32 per code, used for GIF's
// ≤4096-code dictionaries) and hashDictionary (an open-addressing table
// keyed by (code, byte), used for .Z's ≤65536-code dictionaries, where a
// flat array would cost 64 MiB).
type dictionary interface {
	child(code int, b byte) int
	addChild(code int, b byte, newCode int)
	reset()
}

const unknownCode = -1

// newDictionary picks the representation SPEC_FULL.md §4 calls for: array
// up to 8192 codes, hash-indexed above.
func newDictionary(maxDictionary int) dictionary {
	if maxDictionary <= 8192 {
		return newArrayDictionary(maxDictionary)
	}
	return newHashDictionary(maxDictionary)
}

// arrayDictionary is a [code][256]int32 table.
type arrayDictionary struct {
	children [][256]int32
}

func newArrayDictionary(maxDictionary int) *arrayDictionary {
	d := &arrayDictionary{children: make([][256]int32, maxDictionary)}
	d.reset()
	return d
}

func (d *arrayDictionary) reset() {
	for i := range d.children {
		for b := range d.children[i] {
			d.children[i][b] = unknownCode
		}
	}
}

func (d *arrayDictionary) child(code int, b byte) int {
	if code < 0 || code >= len(d.children) {
		return unknownCode
	}
	return int(d.children[code][b])
}

func (d *arrayDictionary) addChild(code int, b byte, newCode int) {
	if code < 0 || code >= len(d.children) {
		return
	}
	// Preserve the earliest-added child: non-greedy search may re-walk
	// a prefix whose longer extension was already allocated.
	if d.children[code][b] == unknownCode {
		d.children[code][b] = int32(newCode)
	}
}

// hashDictionary open-addresses (code, byte) pairs into a table sized as
// the next power of two >= maxDictionary*2, hashed with SipHash under a
// fixed key to spread keys across the table.
type hashDictionary struct {
	keys   []uint64 // packed (code<<8 | byte); used marks occupied slots
	used   []bool
	values []int32
	mask   uint64
	key0   uint64
	key1   uint64
}

func newHashDictionary(maxDictionary int) *hashDictionary {
	size := 1
	for size < maxDictionary*2 {
		size <<= 1
	}
	d := &hashDictionary{
		keys:   make([]uint64, size),
		used:   make([]bool, size),
		values: make([]int32, size),
		mask:   uint64(size - 1),
		key0:   0x706163746b657920, // fixed seed: dictionary contents
		key1:   0x666c657869474946, // aren't adversarial, just needs
	}                               // spread, not unpredictability.
	return d
}

func (d *hashDictionary) slot(code int, b byte) (uint64, uint64) {
	key := uint64(uint32(code))<<8 | uint64(b)
	h := siphash.Hash(d.key0, d.key1, uint64ToBytes(key))
	return key, h & d.mask
}

func (d *hashDictionary) reset() {
	for i := range d.used {
		d.used[i] = false
	}
}

func (d *hashDictionary) child(code int, b byte) int {
	key, idx := d.slot(code, b)
	for {
		if !d.used[idx] {
			return unknownCode
		}
		if d.keys[idx] == key {
			return int(d.values[idx])
		}
		idx = (idx + 1) & d.mask
	}
}

func (d *hashDictionary) addChild(code int, b byte, newCode int) {
	key, idx := d.slot(code, b)
	for {
		if !d.used[idx] {
			d.used[idx] = true
			d.keys[idx] = key
			d.values[idx] = int32(newCode)
			return
		}
		if d.keys[idx] == key {
			// Earliest-added child wins; leave it.
			return
		}
		idx = (idx + 1) & d.mask
	}
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
