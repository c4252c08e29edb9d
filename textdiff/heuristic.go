package textdiff

// Heuristic variant: when the exact search would exceed the cost budget,
// anchor the script on lines that occur exactly once in both sequences and
// replace the stretches between anchors wholesale. The result is a valid
// script (equal regions really are equal) but not necessarily minimal, and
// it is produced in O(n + m) time and memory.

// lineSpan is one line of a rune sequence, newline included.
type lineSpan struct {
	start int // rune offset of the line start
	end   int // one past the last rune
	text  string
}

func splitLines(r []rune) []lineSpan {
	var lines []lineSpan
	start := 0
	for i, c := range r {
		if c == '\n' {
			lines = append(lines, lineSpan{start, i + 1, string(r[start : i+1])})
			start = i + 1
		}
	}
	if start < len(r) {
		lines = append(lines, lineSpan{start, len(r), string(r[start:])})
	}
	return lines
}

// anchorPair matches line ia of the old sequence with line ib of the new.
type anchorPair struct {
	ia int
	ib int
}

// lineAnchored builds a script for a -> b anchored on unique common lines.
// Both coordinate spaces are offset by off (the trimmed common prefix).
func lineAnchored(a, b []rune, off int) Script {
	la := splitLines(a)
	lb := splitLines(b)

	countA := make(map[string]int, len(la))
	firstA := make(map[string]int, len(la))
	for i, l := range la {
		countA[l.text]++
		firstA[l.text] = i
	}
	countB := make(map[string]int, len(lb))
	for _, l := range lb {
		countB[l.text]++
	}

	var pairs []anchorPair
	for ib, l := range lb {
		if countA[l.text] == 1 && countB[l.text] == 1 {
			pairs = append(pairs, anchorPair{ia: firstA[l.text], ib: ib})
		}
	}
	anchors := longestIncreasing(pairs)

	lineStart := func(lines []lineSpan, idx, total int) int {
		if idx >= len(lines) {
			return total
		}
		return lines[idx].start
	}

	var hunks Script
	pa, pb := 0, 0
	emit := func(aLine, bLine int) {
		aStart := lineStart(la, pa, len(a))
		aEnd := lineStart(la, aLine, len(a))
		bStart := lineStart(lb, pb, len(b))
		bEnd := lineStart(lb, bLine, len(b))
		if aStart != aEnd || bStart != bEnd {
			hunks = append(hunks, Hunk{off + aStart, off + aEnd, off + bStart, off + bEnd})
		}
	}
	for _, an := range anchors {
		emit(an.ia, an.ib)
		pa, pb = an.ia+1, an.ib+1
	}
	emit(len(la), len(lb))
	return hunks
}

// longestIncreasing selects the longest subsequence of pairs (already
// ascending in ib) that is also strictly ascending in ia, so anchors stay
// monotonic in both sequences.
func longestIncreasing(pairs []anchorPair) []anchorPair {
	if len(pairs) == 0 {
		return nil
	}
	tails := make([]int, 0, len(pairs))
	prev := make([]int, len(pairs))
	for i, p := range pairs {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if pairs[tails[mid]].ia < p.ia {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
	}

	out := make([]anchorPair, len(tails))
	at := tails[len(tails)-1]
	for i := len(tails) - 1; i >= 0; i-- {
		out[i] = pairs[at]
		at = prev[at]
	}
	return out
}
