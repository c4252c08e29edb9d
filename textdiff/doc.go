// Package textdiff computes bounded edit scripts between two character
// sequences.
//
// The exact path uses the Myers O(ND) edit-distance algorithm restricted to
// a diagonal band: when the edit distance would exceed the cost budget, a
// line-anchored heuristic produces a valid (if suboptimal) script in bounded
// time instead. A wall-clock time budget, polled at a bounded interval
// rather than per comparison, aborts the computation entirely; the caller
// then falls back to replacing the whole range. An aborted computation is a
// defined outcome, not an error.
//
// Scripts are transient: produced, applied, and discarded within a single
// synchronization call.
package textdiff
