package field

import "errors"

// ErrOutOfRange indicates a position outside the accessible range handed to
// Resolve.
var ErrOutOfRange = errors.New("position out of range")

// Boundary is the sentinel annotation value marking a run that separates two
// fields while leaving them logically adjacent when edges are escaped.
var Boundary any = boundary{}

type boundary struct{}

func (boundary) String() string { return "boundary" }

// Source supplies per-position annotations. Annotation values must be
// comparable; nil means "no annotation".
type Source interface {
	// AnnotationAt returns the annotation covering position pos.
	AnnotationAt(pos int) any

	// NextBoundary returns the nearest position after pos (or before, when
	// forward is false) at which the annotation value changes. When no
	// change remains in that direction it returns the scan limit the
	// implementation covers; the resolver re-checks values and never trusts
	// a boundary blindly.
	NextBoundary(pos int, forward bool) int
}

// Range is a resolved field, [Start, End) in character positions.
type Range struct {
	Start int
	End   int
}

// Len returns the field length in characters.
func (r Range) Len() int {
	return r.End - r.Start
}

// Resolve finds the field around pos within the accessible range [lo, hi].
//
// When the annotations before and at pos agree, pos is inside a single
// field and the maximal run is returned. Otherwise pos sits on an edge:
// without escapeFromEdge it is read as the start of the following field;
// with escapeFromEdge it belongs to the field it terminates, and Boundary
// runs next to it are skipped so the surrounding fields merge.
func Resolve(src Source, pos int, escapeFromEdge bool, lo, hi int) (Range, error) {
	if pos < lo || pos > hi {
		return Range{}, ErrOutOfRange
	}

	var before, after any
	if pos > lo {
		before = src.AnnotationAt(pos - 1)
	}
	if pos < hi {
		after = src.AnnotationAt(pos)
	}

	if before == after {
		// Interior of one field. Two touching nil runs merge here as well,
		// so an empty nil/nil gap can never surface as a zero-length field.
		return Range{scanBack(src, pos, before, lo), scanFwd(src, pos, after, hi)}, nil
	}

	if !escapeFromEdge {
		if pos == hi {
			return Range{scanBack(src, pos, before, lo), pos}, nil
		}
		return Range{pos, scanFwd(src, pos, after, hi)}, nil
	}

	if after == Boundary {
		// Skip the boundary run ahead and merge with the field beyond it.
		bend := scanFwd(src, pos, Boundary, hi)
		var next any
		if bend < hi {
			next = src.AnnotationAt(bend)
		}
		return Range{scanBack(src, pos, before, lo), scanFwd(src, bend, next, hi)}, nil
	}
	if before == Boundary {
		bstart := scanBack(src, pos, Boundary, lo)
		var prev any
		if bstart > lo {
			prev = src.AnnotationAt(bstart - 1)
		}
		return Range{scanBack(src, bstart, prev, lo), scanFwd(src, pos, after, hi)}, nil
	}

	start := scanBack(src, pos, before, lo)
	if start == pos && before == nil {
		// The terminated run is empty and unannotated: not a real field
		// (prompt heuristic, see package doc). Fall through to the field
		// that starts here.
		return Range{pos, scanFwd(src, pos, after, hi)}, nil
	}
	return Range{start, pos}, nil
}

// scanFwd returns the end of the run of annotation v starting at pos.
func scanFwd(src Source, pos int, v any, hi int) int {
	for pos < hi && src.AnnotationAt(pos) == v {
		next := src.NextBoundary(pos, true)
		if next <= pos {
			next = pos + 1
		}
		if next > hi {
			next = hi
		}
		pos = next
	}
	return pos
}

// scanBack returns the start of the run of annotation v ending at pos.
func scanBack(src Source, pos int, v any, lo int) int {
	for pos > lo && src.AnnotationAt(pos-1) == v {
		prev := src.NextBoundary(pos, false)
		if prev >= pos {
			prev = pos - 1
		}
		if prev < lo {
			prev = lo
		}
		pos = prev
	}
	return pos
}
