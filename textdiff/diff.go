package textdiff

import (
	"context"
	"time"
)

// Unlimited disables the cost budget.
const Unlimited = -1

// pollInterval is how many outer search iterations pass between deadline
// and cancellation checks, keeping the check itself off the hot path.
const pollInterval = 16

// Options bound a diff computation.
type Options struct {
	// CostBudget caps the edit distance explored by the exact algorithm.
	// Past the cap the heuristic variant takes over. Zero aborts
	// immediately; Unlimited (negative) removes the cap.
	CostBudget int

	// TimeBudget is the wall-clock allowance for the whole computation.
	// Zero means unbounded. An elapsed budget aborts the computation.
	TimeBudget time.Duration
}

// DefaultOptions returns options with no cost cap and no time budget.
func DefaultOptions() Options {
	return Options{CostBudget: Unlimited}
}

// Compute returns the edit script transforming a into b, and whether the
// computation aborted. An aborted computation returns a nil script; the
// caller is expected to fall back to replacing the whole range.
//
// Cancellation of ctx is observed at the same bounded interval as the time
// budget and also reports an abort.
func Compute(ctx context.Context, a, b []rune, opts Options) (Script, bool) {
	// Trim the common prefix and suffix; hunks carry absolute coordinates,
	// so only the middle needs diffing.
	p := commonPrefix(a, b)
	q := commonSuffix(a[p:], b[p:])
	ta := a[p : len(a)-q]
	tb := b[p : len(b)-q]

	if len(ta) == 0 && len(tb) == 0 {
		return nil, false
	}
	if opts.CostBudget == 0 {
		return nil, true
	}
	if len(ta) == 0 {
		return Script{{OldStart: p, OldEnd: p, NewStart: p, NewEnd: p + len(tb)}}, false
	}
	if len(tb) == 0 {
		return Script{{OldStart: p, OldEnd: p + len(ta), NewStart: p, NewEnd: p}}, false
	}

	var deadline time.Time
	if opts.TimeBudget > 0 {
		deadline = time.Now().Add(opts.TimeBudget)
	}

	ops, status := myers(ctx, ta, tb, opts.CostBudget, deadline)
	switch status {
	case diffAborted:
		return nil, true
	case diffBudget:
		return lineAnchored(ta, tb, p), false
	}
	return opsToHunks(ops, p), false
}

// commonPrefix returns the length of the shared prefix of a and b.
func commonPrefix(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// commonSuffix returns the length of the shared suffix of a and b.
func commonSuffix(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

// opsToHunks groups consecutive non-equal edit operations into hunks,
// offsetting both coordinate spaces by off (the trimmed prefix).
func opsToHunks(ops []editOp, off int) Script {
	var hunks Script
	var cur *Hunk
	x, y := 0, 0
	for _, op := range ops {
		switch op.kind {
		case opEqual:
			cur = nil
			x++
			y++
		case opDelete:
			if cur == nil {
				hunks = append(hunks, Hunk{off + x, off + x, off + y, off + y})
				cur = &hunks[len(hunks)-1]
			}
			cur.OldEnd++
			x++
		case opInsert:
			if cur == nil {
				hunks = append(hunks, Hunk{off + x, off + x, off + y, off + y})
				cur = &hunks[len(hunks)-1]
			}
			cur.NewEnd++
			y++
		}
	}
	return hunks
}
