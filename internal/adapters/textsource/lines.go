package textsource

import "unicode/utf8"

// LineIndex maps match offsets to 1-indexed line numbers. Offsets are in
// bytes, or in code points for an index built with runes set.
type LineIndex struct {
	starts []int // starts[i] is the offset of line i+1
}

// NewLineIndex records where each line of text begins.
func NewLineIndex(text string, runes bool) *LineIndex {
	starts := []int{0}
	if runes {
		n := utf8.RuneCountInString(text)
		i := 0
		for _, r := range text {
			if r == '\n' && i+1 < n {
				starts = append(starts, i+1)
			}
			i++
		}
		return &LineIndex{starts: starts}
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Line converts an offset to a 1-indexed line number.
func (x *LineIndex) Line(offset int) int {
	// Binary search for the largest start <= offset
	lo, hi := 0, len(x.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if x.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
