package loom

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// pollEvery is how many characters a bulk operation scans between context
// checks.
const pollEvery = 1024

// SubstituteChar replaces every occurrence of from in [start, end) with to,
// in place. Both characters must encode to the same number of UTF-8 bytes,
// otherwise ErrLengthMismatch. Markers and restriction bounds never move.
//
// The scan fires at most one pre-change notification, on the first actual
// replacement, so an untouched range records nothing. With recordUndo false
// the undo hooks are skipped entirely; the display invalidation still
// fires. Running the same substitution twice changes nothing the second
// time.
//
// ctx is polled at a bounded interval; on cancellation the substitution
// stops at a consistent prefix and returns the count so far alongside the
// context's error.
func (d *Document) SubstituteChar(ctx context.Context, start, end int, from, to rune, recordUndo bool) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if err := d.checkRange(start, end); err != nil {
		return 0, err
	}
	wf := utf8.RuneLen(from)
	wt := utf8.RuneLen(to)
	if wf < 0 || wt < 0 || wf != wt {
		return 0, fmt.Errorf("%w: %q (%d bytes) -> %q (%d bytes)", ErrLengthMismatch, from, wf, to, wt)
	}
	if from == to || start == end {
		return 0, nil
	}

	length := end - start
	count := 0
	notified := false
	for pos := start; pos < end; pos++ {
		if ctx != nil && pos > start && (pos-start)%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				if notified {
					d.notifyPost(start, length, length, recordUndo)
				}
				d.logger.Debug("substitute canceled", "doc", d.id, "at", pos, "replaced", count)
				return count, err
			}
		}
		r, err := d.store.RuneAt(pos)
		if err != nil {
			return count, err
		}
		if r != from {
			continue
		}
		if !notified {
			if recordUndo && d.hooks.PreChange != nil {
				d.hooks.PreChange(start, end)
				// The hook may have edited; do not scan past the new end.
				if hi := d.store.CharLen(); end > hi {
					end = hi
					length = end - start
				}
			}
			notified = true
		}
		if err := d.store.OverwriteRuneAt(pos, to); err != nil {
			return count, err
		}
		count++
	}
	if notified {
		d.notifyPost(start, length, length, recordUndo)
	}
	return count, nil
}
