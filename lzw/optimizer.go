package lzw

import "github.com/RyanCarrier/dijkstra"

// arc is a candidate block (from, to) discovered while simulating forward
// from "from", weighted by the bits that block would emit (tokens plus
// its restart/close overhead).
type arc struct {
	from, to int
	bits     int64
}

// simState carries the running encoder state through one forward
// simulation pass starting at a restart offset.
type simState struct {
	dict          dictionary
	matcher       *matcher
	codeSize      int
	dictSize      int
	tokensInBlock int
	bits          int64
}

func newSimState(data []byte, opts Options) *simState {
	dict := newDictionary(opts.maxDictionary())
	return &simState{
		dict:     dict,
		matcher:  newMatcher(data, dict, opts),
		codeSize: opts.MinCodeSize + 1,
		dictSize: opts.baseDictSize(),
	}
}

// step emits one token starting at i, returning the new position.
func (s *simState) step(data []byte, i int, opts Options) int {
	remainingCap := len(data) - i
	pl := s.matcher.plan(i, remainingCap)
	code, _ := s.matcher.findMatch(i, pl.length)

	s.bits += int64(s.codeSize)
	s.tokensInBlock++

	next := i + pl.length
	if next < len(data) && s.dictSize < opts.maxDictionary() {
		s.dict.addChild(code, data[next], s.dictSize)
		s.dictSize++
	}
	// Same widening rule as emitBlock: track the decoder's dictionary,
	// which holds baseDictSize+tokensInBlock-1 entries at this point.
	if opts.baseDictSize()+s.tokensInBlock-1 == 1<<s.codeSize && s.codeSize < opts.MaxCodeSize {
		s.codeSize++
	}
	return next
}

// closeOverhead computes the extra bits a block restart (or end-of-stream)
// would cost if the block were closed at the current simulation state,
// per spec.md §4.6.
func (s *simState) closeOverhead(opts Options, isFinal bool) int64 {
	if opts.Flavor == GIF {
		// step has already widened codeSize if the decoder widens after
		// the block's last token, so the close code is read at codeSize.
		return int64(s.codeSize)
	}
	// .Z
	if isFinal {
		return 0
	}
	if s.codeSize != opts.MaxCodeSize {
		// Restarts are only modeled at the top code width; this design
		// doesn't attempt the source's width-dependent skip formula
		// (see SPEC_FULL.md §9).
		return -1 // sentinel: not a valid restart point
	}
	// The restart token itself costs codeSize bits, then the stream pads
	// to a byte boundary, then pads further so the next block's token
	// count starts at a multiple of 8.
	afterClear := s.bits + int64(s.codeSize)
	padBits := int64((8 - int(afterClear%8)) % 8)
	gap := (8 - (s.tokensInBlock+1)%8) % 8
	return int64(s.codeSize) + padBits + int64(s.codeSize*gap)
}

// simulateArcsFrom runs one forward pass starting at offset s, recording
// an arc for every aligned offset (and the final offset) reached along
// the way. This is optimizePartial's simulation loop (spec.md §4.7):
// discovering which (s, e) pairs are feasible and what they cost is the
// expensive part; the shortest-path search below is comparatively cheap.
func simulateArcsFrom(data []byte, s int, opts Options) []arc {
	n := len(data)
	st := newSimState(data, opts)
	var arcs []arc
	i := s
	for i < n {
		i = st.step(data, i, opts)
		isFinal := i == n
		if isFinal || i%opts.Alignment == 0 {
			overhead := st.closeOverhead(opts, isFinal)
			if overhead >= 0 {
				arcs = append(arcs, arc{from: s, to: i, bits: st.bits + overhead})
			}
		}
	}
	return arcs
}

// optimize finds the restart offsets 0 = s0 < s1 < ... < sk = len(data)
// minimizing total emitted bits, via a real shortest-path search over the
// arcs simulateArcsFrom discovers (SPEC_FULL.md §9).
func optimize(data []byte, opts Options) ([]int, error) {
	n := len(data)
	if n == 0 {
		return []int{0}, nil
	}
	if opts.Alignment < 1 {
		opts.Alignment = 1
	}

	graph := dijkstra.NewGraph()
	for v := 0; v <= n; v++ {
		graph.AddVertex(v)
	}

	seen := false
	for s := 0; s < n; s += opts.Alignment {
		for _, a := range simulateArcsFrom(data, s, opts) {
			if a.bits <= 0 {
				continue
			}
			if err := graph.AddArc(a.from, a.to, a.bits); err != nil {
				continue
			}
			seen = true
		}
	}
	if !seen {
		return nil, newError("optimize", Internal, nil)
	}

	best, err := graph.Shortest(0, n)
	if err != nil {
		return nil, newError("optimize", Internal, err)
	}
	return best.Path, nil
}
