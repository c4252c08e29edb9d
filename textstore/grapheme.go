package textstore

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Grapheme helpers. Display-level callers step over user-perceived
// characters (grapheme clusters), which may span several runes. Cluster
// segmentation follows Unicode UAX #29 via the uniseg package.

// graphemeWindow is the initial number of characters examined around a
// position when locating a cluster boundary. Clusters longer than the
// window (long emoji ZWJ sequences) widen it until the boundary is found.
const graphemeWindow = 32

// GraphemeCount returns the number of grapheme clusters in the store.
func (s *Store) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(s.Text())
}

// NextGrapheme returns the character position just past the grapheme
// cluster starting at pos. Positions at or past the end return CharLen.
func (s *Store) NextGrapheme(pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos >= s.chars {
		return s.chars
	}
	window := graphemeWindow
	for {
		end := pos + window
		if end > s.chars {
			end = s.chars
		}
		seg, _ := s.Slice(pos, end)
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(seg, -1)
		n := utf8.RuneCountInString(cluster)
		if pos+n < end || end == s.chars {
			return pos + n
		}
		// The cluster may continue past the window.
		window *= 2
	}
}

// PrevGrapheme returns the start of the grapheme cluster preceding pos.
// Positions at or before the beginning return 0.
func (s *Store) PrevGrapheme(pos int) int {
	if pos > s.chars {
		pos = s.chars
	}
	if pos <= 0 {
		return 0
	}
	window := graphemeWindow
	for {
		start := pos - window
		if start < 0 {
			start = 0
		}
		seg, _ := s.Slice(start, pos)
		last := start
		p := start
		state := -1
		for seg != "" {
			var cluster string
			cluster, seg, _, state = uniseg.FirstGraphemeClusterInString(seg, state)
			p += utf8.RuneCountInString(cluster)
			if p >= pos {
				break
			}
			last = p
		}
		if last > start || start == 0 {
			return last
		}
		// No boundary inside the window; the cluster may start earlier.
		window *= 2
	}
}
