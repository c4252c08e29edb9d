package marker

import "errors"

// ErrDetached indicates use of a marker handle that was detached or never
// created.
var ErrDetached = errors.New("marker is detached")

// Affinity controls how a marker behaves when text is inserted exactly at
// its position.
type Affinity uint8

const (
	// AffinityBackward keeps the marker before text inserted at it.
	AffinityBackward Affinity = iota

	// AffinityForward moves the marker past text inserted at it.
	AffinityForward
)

// String returns a human-readable representation of the affinity.
func (a Affinity) String() string {
	if a == AffinityForward {
		return "forward"
	}
	return "backward"
}

// ID is a stable handle for a marker. Handles remain valid across arena
// growth and are never reissued while the marker is attached.
type ID int

// entry is one arena slot.
type entry struct {
	pos      int
	affinity Affinity
	attached bool
}

// Registry is the arena of live markers for one document.
type Registry struct {
	entries []entry
	free    []int // detached slots available for reuse
	live    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create attaches a new marker at pos and returns its handle.
func (r *Registry) Create(pos int, affinity Affinity) ID {
	e := entry{pos: pos, affinity: affinity, attached: true}
	r.live++
	if n := len(r.free); n > 0 {
		slot := r.free[n-1]
		r.free = r.free[:n-1]
		r.entries[slot] = e
		return ID(slot)
	}
	r.entries = append(r.entries, e)
	return ID(len(r.entries) - 1)
}

// Pos returns the current position of the marker.
func (r *Registry) Pos(id ID) (int, error) {
	if !r.valid(id) {
		return 0, ErrDetached
	}
	return r.entries[id].pos, nil
}

// Affinity returns the marker's insertion affinity.
func (r *Registry) Affinity(id ID) (Affinity, error) {
	if !r.valid(id) {
		return AffinityBackward, ErrDetached
	}
	return r.entries[id].affinity, nil
}

// SetPos moves the marker to pos.
func (r *Registry) SetPos(id ID, pos int) error {
	if !r.valid(id) {
		return ErrDetached
	}
	r.entries[id].pos = pos
	return nil
}

// Detach releases the marker. Detaching an already-detached handle is a
// no-op.
func (r *Registry) Detach(id ID) {
	if !r.valid(id) {
		return
	}
	r.entries[id].attached = false
	r.free = append(r.free, int(id))
	r.live--
}

// Len returns the number of attached markers.
func (r *Registry) Len() int {
	return r.live
}

// AttachedAt returns the handles of all attached markers sitting exactly at
// pos, in arena order.
func (r *Registry) AttachedAt(pos int) []ID {
	var ids []ID
	for i := range r.entries {
		if r.entries[i].attached && r.entries[i].pos == pos {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// Live returns the handles of all attached markers, in arena order.
func (r *Registry) Live() []ID {
	ids := make([]ID, 0, r.live)
	for i := range r.entries {
		if r.entries[i].attached {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

func (r *Registry) valid(id ID) bool {
	return id >= 0 && int(id) < len(r.entries) && r.entries[id].attached
}

// AdjustInsert re-anchors all markers after n characters were inserted at
// position at. Markers beyond the insertion shift right; a marker exactly at
// the insertion moves only with forward affinity.
func (r *Registry) AdjustInsert(at, n int) {
	if n <= 0 {
		return
	}
	for i := range r.entries {
		e := &r.entries[i]
		if !e.attached {
			continue
		}
		if e.pos > at || (e.pos == at && e.affinity == AffinityForward) {
			e.pos += n
		}
	}
}

// AdjustDelete re-anchors all markers after the range [start, end) was
// deleted. Markers inside the range collapse to start; markers past it
// shift left.
func (r *Registry) AdjustDelete(start, end int) {
	if end <= start {
		return
	}
	n := end - start
	for i := range r.entries {
		e := &r.entries[i]
		if !e.attached || e.pos <= start {
			continue
		}
		if e.pos < end {
			e.pos = start
		} else {
			e.pos -= n
		}
	}
}

// AdjustReplace re-anchors all markers after the range [start, end) was
// replaced by newLen characters. A pure insertion (start == end) follows
// the affinity rule of AdjustInsert. Otherwise a marker exactly at end lands
// at the end of the replacement, a marker at start stays at start, and
// markers inside the old range collapse to start.
func (r *Registry) AdjustReplace(start, end, newLen int) {
	if start == end {
		r.AdjustInsert(start, newLen)
		return
	}
	delta := newLen - (end - start)
	for i := range r.entries {
		e := &r.entries[i]
		if !e.attached || e.pos <= start {
			continue
		}
		if e.pos < end {
			e.pos = start
		} else {
			e.pos += delta
		}
	}
}
