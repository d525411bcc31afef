package lzw

// Options controls how Encode searches for and selects a token plan. The
// zero value is not valid; use DefaultOptions(flavor) to get sane defaults
// and override individual fields.
type Options struct {
	Flavor Flavor

	// MinCodeSize is the alphabet width: 2..8 for GIF (from the image's
	// local/global color table size), 8 for .Z.
	MinCodeSize int

	// MaxCodeSize caps the code width the encoder will grow to: 12 for
	// GIF (the format's ceiling), up to 16 for .Z.
	MaxCodeSize int

	// Alignment is the granularity, in index-stream bytes, at which the
	// optimizer is allowed to place a block restart.
	Alignment int

	// Greedy disables non-greedy (flexible-parsing) search entirely,
	// falling back to always taking the longest match.
	Greedy bool

	// MinNonGreedyMatch is the shortest greedy match length for which
	// non-greedy search is attempted at all.
	MinNonGreedyMatch int

	// MinImprovement is the minimum token-count improvement a non-greedy
	// choice must show over the greedy choice to be taken.
	MinImprovement int

	// SplitRuns, when false, skips non-greedy search at positions where
	// the greedy match is a run of a single repeated byte.
	SplitRuns bool

	// PrettyGood names the original tool's two-pass non-greedy DP. The
	// optimizer does not read it: every run is a single pass, so setting
	// it changes neither the result nor the running time.
	PrettyGood bool

	// StartWithClearCode prepends a clear code at minCodeSize+1 before
	// the first token, matching the de-facto GIF encoder convention.
	// Ignored for .Z, which has no leading restart convention.
	StartWithClearCode bool

	// Compatible stops dictionary growth 3 entries short of the format
	// ceiling (4093 for GIF) to avoid tripping decoders that mishandle
	// the very last few codes.
	Compatible bool

	Logger Logger
}

// DefaultOptions returns the Options this package uses when a caller
// doesn't override anything: non-greedy search enabled, PrettyGood set
// (the optimizer ignores it), compatible dictionary growth, and a
// clear-code prefix for GIF.
func DefaultOptions(flavor Flavor) Options {
	o := Options{
		Flavor:              flavor,
		Alignment:           1,
		MinNonGreedyMatch:   2,
		MinImprovement:      1,
		SplitRuns:           false,
		PrettyGood:          true,
		StartWithClearCode:  flavor == GIF,
		Compatible:          true,
		Logger:              nil,
	}
	o.MaxCodeSize = flavor.DefaultMaxCodeSize()
	if flavor == GIF {
		o.MinCodeSize = 2
	} else {
		o.MinCodeSize = 8
	}
	return o
}

func (o Options) clearCode() int {
	return 1 << o.MinCodeSize
}

func (o Options) endOfStreamCode() int {
	return o.clearCode() + 1
}

func (o Options) baseDictSize() int {
	if o.Flavor == GIF {
		return o.clearCode() + 2
	}
	return o.clearCode() + 1
}

func (o Options) maxDictionary() int {
	max := 1 << o.MaxCodeSize
	if o.Compatible {
		max -= 3
	}
	return max
}
