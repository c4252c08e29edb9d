package restrict

import "errors"

// ErrNoSuchLabel indicates a pop for a label that is not on the stack.
var ErrNoSuchLabel = errors.New("no restriction with that label")

// entry is one labeled restriction plus the ordinary-narrowing state it
// displaced when pushed.
type entry struct {
	lo, hi        int
	label         string
	savedNarrowed bool
	savedLo       int
	savedHi       int
}

// snapshot is a full restriction state parked by WithFullBounds. It stays
// inside the stack so mutation adjustments keep shifting its bounds.
type snapshot struct {
	labeled  []entry
	narrowed bool
	lo, hi   int
}

// Stack tracks the nested restrictions of one document. It is owned by the
// document and adjusted only from the document's own mutations.
type Stack struct {
	docLen  int
	labeled []entry // bottom to top

	// The single unlabeled (ordinary) narrowing, innermost when active.
	narrowed bool
	lo, hi   int

	// States parked by nested WithFullBounds calls, outermost first.
	suspended []snapshot
}

// New creates a stack for a document of docLen characters with no
// restrictions active.
func New(docLen int) *Stack {
	return &Stack{docLen: docLen}
}

// DocLen returns the tracked document length.
func (s *Stack) DocLen() int {
	return s.docLen
}

// Bounds returns the currently visible range [lo, hi].
func (s *Stack) Bounds() (int, int) {
	if s.narrowed {
		return s.lo, s.hi
	}
	if n := len(s.labeled); n > 0 {
		return s.labeled[n-1].lo, s.labeled[n-1].hi
	}
	return 0, s.docLen
}

// Contains reports whether pos is within the visible range. The high bound
// is a valid position (it is the end insertion point).
func (s *Stack) Contains(pos int) bool {
	lo, hi := s.Bounds()
	return pos >= lo && pos <= hi
}

// Narrow sets the ordinary narrowing to [lo, hi], clamped to the innermost
// enclosing restriction. A previous ordinary narrowing is replaced.
func (s *Stack) Narrow(lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	elo, ehi := s.enclosingBounds()
	if lo < elo {
		lo = elo
	}
	if hi > ehi {
		hi = ehi
	}
	if lo > hi {
		lo = ehi
		hi = ehi
	}
	s.narrowed = true
	s.lo, s.hi = lo, hi
}

// enclosingBounds returns the bounds the ordinary narrowing must fit in:
// the innermost labeled restriction, or the full document.
func (s *Stack) enclosingBounds() (int, int) {
	if n := len(s.labeled); n > 0 {
		return s.labeled[n-1].lo, s.labeled[n-1].hi
	}
	return 0, s.docLen
}

// Widen removes the ordinary narrowing. With a labeled restriction active
// the visible range becomes that restriction's bounds, not the document's
// full extent.
func (s *Stack) Widen() {
	s.narrowed = false
}

// PushLabeled pushes a labeled restriction with bounds [lo, hi], clamped to
// the current visible range. The ordinary narrowing state is recorded and
// cleared; the matching PopLabeled restores it.
func (s *Stack) PushLabeled(lo, hi int, label string) {
	if lo > hi {
		lo, hi = hi, lo
	}
	clo, chi := s.Bounds()
	if lo < clo {
		lo = clo
	}
	if hi > chi {
		hi = chi
	}
	if lo > hi {
		lo = chi
		hi = chi
	}
	s.labeled = append(s.labeled, entry{
		lo:            lo,
		hi:            hi,
		label:         label,
		savedNarrowed: s.narrowed,
		savedLo:       s.lo,
		savedHi:       s.hi,
	})
	s.narrowed = false
}

// PopLabeled removes the topmost restriction carrying label, along with any
// restrictions nested inside it, and restores the ordinary-narrowing state
// recorded when it was pushed.
func (s *Stack) PopLabeled(label string) error {
	for i := len(s.labeled) - 1; i >= 0; i-- {
		if s.labeled[i].label != label {
			continue
		}
		e := s.labeled[i]
		s.labeled = s.labeled[:i]
		s.narrowed = e.savedNarrowed
		s.lo, s.hi = e.savedLo, e.savedHi
		return nil
	}
	return ErrNoSuchLabel
}

// WithFullBounds runs fn with every restriction temporarily lifted, then
// restores the prior state regardless of how fn returns. The parked bounds
// keep tracking edits made inside fn, so the restored restriction still
// covers the same text.
func (s *Stack) WithFullBounds(fn func() error) error {
	s.suspended = append(s.suspended, snapshot{
		labeled:  s.labeled,
		narrowed: s.narrowed,
		lo:       s.lo,
		hi:       s.hi,
	})
	s.labeled = nil
	s.narrowed = false

	defer func() {
		sn := s.suspended[len(s.suspended)-1]
		s.suspended = s.suspended[:len(s.suspended)-1]
		s.labeled = sn.labeled
		s.narrowed = sn.narrowed
		s.lo, s.hi = sn.lo, sn.hi
		s.clampAll()
	}()

	return fn()
}

// clampAll forces every stored bound back inside the document.
func (s *Stack) clampAll() {
	for i := range s.labeled {
		s.labeled[i].lo = clamp(s.labeled[i].lo, 0, s.docLen)
		s.labeled[i].hi = clamp(s.labeled[i].hi, s.labeled[i].lo, s.docLen)
	}
	if s.narrowed {
		s.lo = clamp(s.lo, 0, s.docLen)
		s.hi = clamp(s.hi, s.lo, s.docLen)
	}
}

// AdjustInsert shifts all stored bounds after n characters were inserted at
// position at. Text inserted exactly at a boundary becomes visible: low
// bounds keep backward affinity, high bounds move forward.
func (s *Stack) AdjustInsert(at, n int) {
	if n <= 0 {
		return
	}
	s.docLen += n
	shift := func(lo, hi *int) {
		if *lo > at {
			*lo += n
		}
		if *hi >= at {
			*hi += n
		}
	}
	for i := range s.labeled {
		shift(&s.labeled[i].lo, &s.labeled[i].hi)
		shift(&s.labeled[i].savedLo, &s.labeled[i].savedHi)
	}
	if s.narrowed {
		shift(&s.lo, &s.hi)
	}
	for i := range s.suspended {
		sn := &s.suspended[i]
		for j := range sn.labeled {
			shift(&sn.labeled[j].lo, &sn.labeled[j].hi)
			shift(&sn.labeled[j].savedLo, &sn.labeled[j].savedHi)
		}
		if sn.narrowed {
			shift(&sn.lo, &sn.hi)
		}
	}
}

// AdjustDelete shifts all stored bounds after the range [start, end) was
// deleted.
func (s *Stack) AdjustDelete(start, end int) {
	if end <= start {
		return
	}
	n := end - start
	s.docLen -= n
	move := func(p *int) {
		switch {
		case *p <= start:
		case *p < end:
			*p = start
		default:
			*p -= n
		}
	}
	for i := range s.labeled {
		move(&s.labeled[i].lo)
		move(&s.labeled[i].hi)
		move(&s.labeled[i].savedLo)
		move(&s.labeled[i].savedHi)
	}
	if s.narrowed {
		move(&s.lo)
		move(&s.hi)
	}
	for i := range s.suspended {
		sn := &s.suspended[i]
		for j := range sn.labeled {
			move(&sn.labeled[j].lo)
			move(&sn.labeled[j].hi)
			move(&sn.labeled[j].savedLo)
			move(&sn.labeled[j].savedHi)
		}
		if sn.narrowed {
			move(&sn.lo)
			move(&sn.hi)
		}
	}
}

// AdjustReplace shifts all stored bounds after [start, end) was replaced by
// newLen characters.
func (s *Stack) AdjustReplace(start, end, newLen int) {
	if start == end {
		s.AdjustInsert(start, newLen)
		return
	}
	s.AdjustDelete(start, end)
	s.AdjustInsert(start, newLen)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
