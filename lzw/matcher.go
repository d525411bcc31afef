package lzw

// matcher wraps a dictionary with the match-search rules from §4.5: the
// longest dictionary-backed extension starting at a position, plus the
// non-greedy lookahead that trades a shorter match now for a longer one
// immediately after.
type matcher struct {
	data []byte
	dict dictionary
	opts Options
}

func newMatcher(data []byte, dict dictionary, opts Options) *matcher {
	return &matcher{data: data, dict: dict, opts: opts}
}

// findMatch returns the code walked to and the length of the longest
// match starting at from, bounded by cap. Codes start at the leaf
// (single-byte) level, so length is at least 1 whenever from is inside
// data and capLen > 0; otherwise length is 0.
func (m *matcher) findMatch(from, capLen int) (code int, length int) {
	if from >= len(m.data) {
		return 0, 0
	}
	if capLen <= 0 {
		return int(m.data[from]), 0
	}
	code = int(m.data[from])
	length = 1
	for length < capLen {
		next := m.dict.child(code, m.data[from+length])
		if next == unknownCode {
			break
		}
		code = next
		length++
	}
	return code, length
}

// matchPlan is the match length chosen for a position, plus whether
// non-greedy search picked it over the greedy length.
type matchPlan struct {
	length    int
	nonGreedy bool
}

// plan implements §4.5's non-greedy extension: score the greedy choice
// g+g', then try every shorter prefix s in g-1..1 and take the best
// s+t that beats the greedy score by minImprovement and is strictly
// better.
func (m *matcher) plan(from, capLen int) matchPlan {
	_, g := m.findMatch(from, capLen)
	if m.opts.Greedy || g == 1 || g < m.opts.MinNonGreedyMatch {
		return matchPlan{length: g}
	}
	if from+g+4 >= len(m.data) {
		return matchPlan{length: g}
	}
	if !m.opts.SplitRuns && isRun(m.data[from : from+g]) {
		return matchPlan{length: g}
	}

	_, gAfter := m.findMatch(from+g, capLen-g)
	bestLen := g
	bestScore := g + gAfter
	found := false
	for s := g - 1; s >= 1; s-- {
		_, t := m.findMatch(from+s, capLen-s)
		score := s + t
		if score > bestScore && score >= (g+gAfter)+m.opts.MinImprovement {
			bestScore = score
			bestLen = s
			found = true
		}
	}
	return matchPlan{length: bestLen, nonGreedy: found}
}

func isRun(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}
