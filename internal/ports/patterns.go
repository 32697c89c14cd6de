package ports

// Match is one occurrence of a keyword in a scanned text.
// Start and End are inclusive 0-based offsets measured in the symbols of the
// engine that produced the match (bytes, or code points in rune mode), so
// End-Start+1 always equals the keyword's length in those symbols.
type Match struct {
	Keyword string `json:"keyword"`
	ID      int    `json:"id"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Len returns the length of the matched span in symbols.
func (m Match) Len() int {
	return m.End - m.Start + 1
}

// PatternMatcher finds every keyword occurrence in a text using multi-pattern
// matching (Aho-Corasick). A single pass over the content reports all
// matches, including overlapping ones ending at the same position. This is
// O(n + m + z) where n=content length, m=total pattern length, z=number of
// matches.
//
// A PatternMatcher is sealed once built: Scan never mutates it and may be
// called concurrently from multiple goroutines.
type PatternMatcher interface {
	// Scan returns every match in content ordered by End. Returns nil when
	// nothing matches, including for empty content.
	Scan(content string) []Match

	// KeywordCount returns the number of keywords the matcher was built from.
	KeywordCount() int
}
