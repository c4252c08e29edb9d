package loom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loomengine/loom/textdiff"
)

// SyncOptions bound the work ReplaceRegion may spend computing a minimal
// edit script. The zero value allows no diffing at all; use
// DefaultSyncOptions for unbounded search.
type SyncOptions struct {
	// CostBudget caps the edit distance explored. 0 skips straight to the
	// wholesale fallback; negative means unlimited.
	CostBudget int

	// TimeBudget caps wall-clock diff time. 0 means unlimited.
	TimeBudget time.Duration
}

// DefaultSyncOptions returns options with no cost or time cap.
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{CostBudget: textdiff.Unlimited}
}

// SyncResult describes what ReplaceRegion did.
type SyncResult struct {
	// Aborted is set when the diff gave up under its budgets and the range
	// was replaced wholesale instead. Not an error: the text still matches.
	Aborted bool

	// Complete is false only when the context was canceled mid-script. The
	// document is consistent but does not yet match the source.
	Complete bool

	// Hunks is the number of sub-edits applied.
	Hunks int

	// Inserted and Deleted count characters across the applied sub-edits.
	Inserted int
	Deleted  int
}

// ReplaceRegion makes [start, end) match src using the smallest edits the
// budgets allow. Unchanged stretches are never rewritten, so markers and
// restriction bounds inside them keep their exact positions. Markers exactly
// on the region edges behave as for a whole-range replace whatever the edit
// script looks like: the start marker stays at start, the end marker lands
// at the end of the new text. When the diff exceeds its budgets the whole
// range is replaced in one edit, which is correct but moves every marker
// inside the range to start.
//
// Each applied hunk is one marker-adjusting edit, but the whole call is a
// single logical mutation for the undo log and display. Hunks are applied
// back to front so earlier coordinates stay valid throughout.
//
// Cancellation between hunks stops with Complete false; everything applied
// so far stays applied and the document remains consistent.
func (d *Document) ReplaceRegion(ctx context.Context, start, end int, src string, opts SyncOptions) (SyncResult, error) {
	if err := d.checkOpen(); err != nil {
		return SyncResult{}, err
	}
	if err := d.checkRange(start, end); err != nil {
		return SyncResult{}, err
	}
	src = strings.ToValidUTF8(src, "�")

	dst, err := d.store.Slice(start, end)
	if err != nil {
		return SyncResult{}, err
	}
	if dst == src {
		return SyncResult{Complete: true}, nil
	}

	a := []rune(dst)
	b := []rune(src)
	lenBefore := end - start

	// Equal-length regions reduce to overwriting the differing middle.
	if len(a) == len(b) {
		i := 0
		for a[i] == b[i] {
			i++
		}
		j := 0
		for j < len(a)-i-1 && a[len(a)-1-j] == b[len(b)-1-j] {
			j++
		}
		if err := d.syncPre(start, end); err != nil {
			return SyncResult{}, err
		}
		if err := d.applyReplace(start+i, end-j, string(b[i:len(b)-j])); err != nil {
			return SyncResult{}, err
		}
		d.notifyPost(start, lenBefore, lenBefore, true)
		n := len(a) - i - j
		return SyncResult{Complete: true, Hunks: 1, Inserted: n, Deleted: n}, nil
	}

	script, aborted := textdiff.Compute(ctx, a, b, textdiff.Options{
		CostBudget: opts.CostBudget,
		TimeBudget: opts.TimeBudget,
	})
	if aborted {
		d.logger.Debug("region sync over budget, replacing wholesale",
			"doc", d.id, "old", len(a), "new", len(b))
		if err := d.syncPre(start, end); err != nil {
			return SyncResult{}, err
		}
		if err := d.applyReplace(start, end, src); err != nil {
			return SyncResult{}, err
		}
		d.notifyPost(start, lenBefore, len(b), true)
		return SyncResult{
			Aborted:  true,
			Complete: true,
			Hunks:    1,
			Inserted: len(b),
			Deleted:  len(a),
		}, nil
	}

	if err := d.syncPre(start, end); err != nil {
		return SyncResult{}, err
	}

	// Markers sitting exactly on the region edges follow the whole-range
	// replace rule: the end tracks the end of the replacement, the start
	// stays. A pure-insert hunk landing on an edge would otherwise decide
	// by insertion affinity and disagree with the wholesale fallback.
	var startPins, endPins []MarkerID
	if start != end {
		startPins = d.markers.AttachedAt(start)
		endPins = d.markers.AttachedAt(end)
	}

	res := SyncResult{Complete: true}
	for i := len(script) - 1; i >= 0; i-- {
		if ctx != nil && ctx.Err() != nil {
			res.Complete = false
			d.logger.Debug("region sync canceled mid-script",
				"doc", d.id, "applied", res.Hunks, "total", len(script))
			break
		}
		h := script[i]
		if err := d.applyReplace(start+h.OldStart, start+h.OldEnd, string(b[h.NewStart:h.NewEnd])); err != nil {
			d.notifyPost(start, lenBefore, lenBefore+res.Inserted-res.Deleted, true)
			return res, err
		}
		res.Hunks++
		res.Inserted += h.NewEnd - h.NewStart
		res.Deleted += h.OldEnd - h.OldStart
	}
	if res.Complete {
		for _, id := range startPins {
			_ = d.markers.SetPos(id, start)
		}
		for _, id := range endPins {
			_ = d.markers.SetPos(id, start+len(b))
		}
	}
	d.notifyPost(start, lenBefore, lenBefore+res.Inserted-res.Deleted, true)
	return res, nil
}

// syncPre fires the pre-change hook and insists the hook left the range
// intact: the edit script was computed against a snapshot, so a reentrant
// edit here would desynchronize it.
func (d *Document) syncPre(start, end int) error {
	s, e := d.notifyPre(start, end, true)
	if s != start || e != end {
		return fmt.Errorf("%w: range [%d, %d) changed by pre-change hook", ErrOutOfRange, start, end)
	}
	return nil
}
