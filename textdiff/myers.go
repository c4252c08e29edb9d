package textdiff

import (
	"context"
	"time"
)

// opKind classifies a single edit operation.
type opKind uint8

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

// editOp is one step of an edit path.
type editOp struct {
	kind     opKind
	oldIndex int
	newIndex int
}

// diffStatus reports how the search ended.
type diffStatus uint8

const (
	diffOK      diffStatus = iota
	diffBudget             // edit distance exceeded the cost budget
	diffAborted            // deadline elapsed or context canceled
)

// myers runs the Myers shortest-edit-script search over a and b, exploring
// at most budget diagonals (budget < 0 removes the cap). The deadline and
// ctx are polled every pollInterval outer iterations.
func myers[T comparable](ctx context.Context, a, b []T, budget int, deadline time.Time) ([]editOp, diffStatus) {
	n := len(a)
	m := len(b)

	maxD := n + m
	if budget >= 0 && budget < maxD {
		maxD = budget
	}

	// V[-d..d] maps onto a slice with this offset.
	offset := n + m
	v := make([]int, 2*(n+m)+1)
	v[offset+1] = 0

	var trace [][]int

	for d := 0; d <= maxD; d++ {
		if d%pollInterval == 0 {
			if ctx != nil && ctx.Err() != nil {
				return nil, diffAborted
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil, diffAborted
			}
		}

		// Trace captures the state from the previous iteration; the
		// backtrack walks it in reverse.
		vCopy := make([]int, len(v))
		copy(vCopy, v)
		trace = append(trace, vCopy)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				vFinal := make([]int, len(v))
				copy(vFinal, v)
				trace = append(trace, vFinal)
				return backtrack(trace, n, m, offset), diffOK
			}
		}
	}

	return nil, diffBudget
}

// backtrack reconstructs the edit script from the search trace.
func backtrack(trace [][]int, n, m, offset int) []editOp {
	x := n
	y := m
	var ops []editOp

	for d := len(trace) - 2; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, editOp{kind: opEqual, oldIndex: x, newIndex: y})
		}

		if d > 0 {
			if x > prevX {
				x--
				ops = append(ops, editOp{kind: opDelete, oldIndex: x})
			} else if y > prevY {
				y--
				ops = append(ops, editOp{kind: opInsert, newIndex: y})
			}
		}
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
