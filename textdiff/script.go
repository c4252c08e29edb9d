package textdiff

import "fmt"

// Hunk is one sub-edit of a script: the old range [OldStart, OldEnd) is
// replaced by the new range [NewStart, NewEnd). Old coordinates index the
// sequence being transformed, new coordinates the sequence being matched;
// both are in characters.
type Hunk struct {
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
}

// String returns a human-readable representation of the hunk.
func (h Hunk) String() string {
	switch {
	case h.OldStart == h.OldEnd:
		return fmt.Sprintf("insert [%d:%d) at %d", h.NewStart, h.NewEnd, h.OldStart)
	case h.NewStart == h.NewEnd:
		return fmt.Sprintf("delete [%d:%d)", h.OldStart, h.OldEnd)
	default:
		return fmt.Sprintf("replace [%d:%d) with [%d:%d)", h.OldStart, h.OldEnd, h.NewStart, h.NewEnd)
	}
}

// IsInsert returns true if the hunk inserts without deleting.
func (h Hunk) IsInsert() bool {
	return h.OldStart == h.OldEnd && h.NewStart != h.NewEnd
}

// IsDelete returns true if the hunk deletes without inserting.
func (h Hunk) IsDelete() bool {
	return h.NewStart == h.NewEnd && h.OldStart != h.OldEnd
}

// Script is an ordered sequence of non-overlapping hunks, ascending by old
// position. Applying the hunks from the end of the script toward the start
// keeps earlier coordinates valid.
type Script []Hunk

// Deleted returns the total number of characters the script removes.
func (s Script) Deleted() int {
	var n int
	for _, h := range s {
		n += h.OldEnd - h.OldStart
	}
	return n
}

// Inserted returns the total number of characters the script adds.
func (s Script) Inserted() int {
	var n int
	for _, h := range s {
		n += h.NewEnd - h.NewStart
	}
	return n
}

// Apply reproduces the script's effect on a, drawing replacement text from
// b. It is primarily a verification aid.
func (s Script) Apply(a, b []rune) []rune {
	out := append([]rune(nil), a...)
	for i := len(s) - 1; i >= 0; i-- {
		h := s[i]
		tail := append([]rune(nil), out[h.OldEnd:]...)
		out = append(out[:h.OldStart], b[h.NewStart:h.NewEnd]...)
		out = append(out, tail...)
	}
	return out
}
