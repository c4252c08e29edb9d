package loom

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/loomengine/loom/field"
	"github.com/loomengine/loom/marker"
	"github.com/loomengine/loom/restrict"
	"github.com/loomengine/loom/textstore"
)

// Affinity re-exports marker insertion affinity for facade users.
type Affinity = marker.Affinity

const (
	AffinityBackward = marker.AffinityBackward
	AffinityForward  = marker.AffinityForward
)

// MarkerID re-exports the marker handle type.
type MarkerID = marker.ID

// FieldRange re-exports the resolved field range.
type FieldRange = field.Range

// Hooks connect a document to its external collaborators. All hooks are
// optional. PreChange and PostChange bracket each logical mutation and feed
// the undo log; Invalidate tells the display layer which characters to
// redraw. Hooks may edit the document (the positions they were called with
// are re-validated afterwards), but they must not call back into the
// operation that fired them.
type Hooks struct {
	// PreChange fires once before a mutation touches [start, end).
	PreChange func(start, end int)

	// PostChange fires once after a mutation. The affected region began at
	// start and went from lenBefore to lenAfter characters.
	PostChange func(start, lenBefore, lenAfter int)

	// Invalidate fires after every mutation, undo-recorded or not, with the
	// modified region in post-change coordinates.
	Invalidate func(start, end int)
}

// Document is a mutable UTF-8 text with markers, restrictions, fields and
// region synchronization. The zero value is not usable; construct with New.
type Document struct {
	id      uuid.UUID
	store   *textstore.Store
	markers *marker.Registry
	bounds  *restrict.Stack
	ann     field.Source
	hooks   Hooks
	logger  *log.Logger
	closed  bool
}

// New constructs an empty document, then applies opts.
func New(opts ...Option) *Document {
	d := &Document{
		id:      uuid.New(),
		store:   textstore.New(),
		markers: marker.NewRegistry(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.bounds = restrict.New(d.store.CharLen())
	return d
}

// ID returns the document's stable identity.
func (d *Document) ID() uuid.UUID { return d.id }

// Close marks the document closed. Every subsequent fallible operation
// returns ErrDocumentClosed; the plain read accessors (Text, CharLen,
// ByteLen, Bounds, LiveMarkers) keep reporting the final state so teardown
// code can still inspect it. Closing twice is harmless.
func (d *Document) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.logger.Debug("document closed", "doc", d.id, "chars", d.store.CharLen())
}

func (d *Document) checkOpen() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrDocumentClosed, d.id)
	}
	return nil
}

// checkPos validates an insertion point against the active restriction.
func (d *Document) checkPos(pos int) error {
	lo, hi := d.bounds.Bounds()
	if pos < lo || pos > hi {
		return fmt.Errorf("%w: position %d outside accessible [%d, %d]", ErrOutOfRange, pos, lo, hi)
	}
	return nil
}

// checkRange validates a half-open character range against the active
// restriction.
func (d *Document) checkRange(start, end int) error {
	if start > end {
		return fmt.Errorf("%w: range [%d, %d) is inverted", ErrOutOfRange, start, end)
	}
	lo, hi := d.bounds.Bounds()
	if start < lo || end > hi {
		return fmt.Errorf("%w: range [%d, %d) outside accessible [%d, %d]", ErrOutOfRange, start, end, lo, hi)
	}
	return nil
}

// clampRange pulls a range back inside the current accessible region. Used
// after a hook ran, since hooks may edit the document.
func (d *Document) clampRange(start, end int) (int, int) {
	lo, hi := d.bounds.Bounds()
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}
	if end < start {
		end = start
	}
	return start, end
}

// notifyPre fires the pre-change hook for [start, end) and returns the
// range clamped to whatever state the hook left behind.
func (d *Document) notifyPre(start, end int, recordUndo bool) (int, int) {
	if recordUndo && d.hooks.PreChange != nil {
		d.hooks.PreChange(start, end)
		return d.clampRange(start, end)
	}
	return start, end
}

// notifyPost fires the post-change and invalidation hooks.
func (d *Document) notifyPost(start, lenBefore, lenAfter int, recordUndo bool) {
	if recordUndo && d.hooks.PostChange != nil {
		d.hooks.PostChange(start, lenBefore, lenAfter)
	}
	if d.hooks.Invalidate != nil {
		d.hooks.Invalidate(start, start+lenAfter)
	}
}

// ---- Read access ----

// The error-less accessors below stay readable after Close; see Close.

// Text returns the accessible text, honoring the active restriction.
func (d *Document) Text() string {
	lo, hi := d.bounds.Bounds()
	s, err := d.store.Slice(lo, hi)
	if err != nil {
		return ""
	}
	return s
}

// CharLen returns the full document length in characters, restriction or
// not. Use Bounds for the accessible extent.
func (d *Document) CharLen() int { return d.store.CharLen() }

// ByteLen returns the full document length in UTF-8 bytes.
func (d *Document) ByteLen() int { return d.store.ByteLen() }

// Slice returns the characters in [start, end).
func (d *Document) Slice(start, end int) (string, error) {
	if err := d.checkOpen(); err != nil {
		return "", err
	}
	if err := d.checkRange(start, end); err != nil {
		return "", err
	}
	return d.store.Slice(start, end)
}

// RuneAt returns the character at pos.
func (d *Document) RuneAt(pos int) (rune, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	lo, hi := d.bounds.Bounds()
	if pos < lo || pos >= hi {
		return 0, fmt.Errorf("%w: position %d outside accessible [%d, %d)", ErrOutOfRange, pos, lo, hi)
	}
	return d.store.RuneAt(pos)
}

// CharToByte converts a character index to its byte offset. Conversions
// operate on the full document, independent of restrictions.
func (d *Document) CharToByte(pos int) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	return d.store.CharToByte(pos)
}

// ByteToChar converts a byte offset to its character index. The offset must
// fall on a character boundary.
func (d *Document) ByteToChar(off int) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	return d.store.ByteToChar(off)
}

// ---- Mutation ----

// Insert places text before the character at pos.
func (d *Document) Insert(pos int, text string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkPos(pos); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	text = strings.ToValidUTF8(text, "�")
	pos, _ = d.notifyPre(pos, pos, true)

	n := utf8.RuneCountInString(text)
	if err := d.store.Insert(pos, text); err != nil {
		return err
	}
	d.markers.AdjustInsert(pos, n)
	d.bounds.AdjustInsert(pos, n)
	d.notifyPost(pos, 0, n, true)
	return nil
}

// Delete removes the characters in [start, end).
func (d *Document) Delete(start, end int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	start, end = d.notifyPre(start, end, true)
	if start >= end {
		return nil
	}
	if err := d.store.Delete(start, end); err != nil {
		return err
	}
	d.markers.AdjustDelete(start, end)
	d.bounds.AdjustDelete(start, end)
	d.notifyPost(start, end-start, 0, true)
	return nil
}

// Replace swaps the characters in [start, end) for text in one logical
// mutation. Markers inside the range collapse to start; markers at end
// track the end of the replacement.
func (d *Document) Replace(start, end int, text string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.checkRange(start, end); err != nil {
		return err
	}
	text = strings.ToValidUTF8(text, "�")
	if start == end && text == "" {
		return nil
	}
	start, end = d.notifyPre(start, end, true)

	n := utf8.RuneCountInString(text)
	if err := d.applyReplace(start, end, text); err != nil {
		return err
	}
	d.notifyPost(start, end-start, n, true)
	return nil
}

// applyReplace performs one store mutation plus the matching marker and
// restriction adjustments, with no hook traffic. text must be valid UTF-8.
func (d *Document) applyReplace(start, end int, text string) error {
	n := utf8.RuneCountInString(text)
	switch {
	case start == end:
		if err := d.store.Insert(start, text); err != nil {
			return err
		}
		d.markers.AdjustInsert(start, n)
		d.bounds.AdjustInsert(start, n)
	case text == "":
		if err := d.store.Delete(start, end); err != nil {
			return err
		}
		d.markers.AdjustDelete(start, end)
		d.bounds.AdjustDelete(start, end)
	default:
		if err := d.store.Delete(start, end); err != nil {
			return err
		}
		if err := d.store.Insert(start, text); err != nil {
			return err
		}
		d.markers.AdjustReplace(start, end, n)
		d.bounds.AdjustReplace(start, end, n)
	}
	return nil
}

// ---- Markers ----

// CreateMarker registers a marker at pos. Markers are positioned in the
// full document and are not constrained by restrictions.
func (d *Document) CreateMarker(pos int, affinity Affinity) (MarkerID, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if pos < 0 || pos > d.store.CharLen() {
		return 0, fmt.Errorf("%w: marker position %d of %d", ErrOutOfRange, pos, d.store.CharLen())
	}
	return d.markers.Create(pos, affinity), nil
}

// MarkerPos returns the current position of a marker.
func (d *Document) MarkerPos(id MarkerID) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	return d.markers.Pos(id)
}

// SetMarkerPos moves a marker to pos.
func (d *Document) SetMarkerPos(id MarkerID, pos int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if pos < 0 || pos > d.store.CharLen() {
		return fmt.Errorf("%w: marker position %d of %d", ErrOutOfRange, pos, d.store.CharLen())
	}
	return d.markers.SetPos(id, pos)
}

// DetachMarker releases a marker. Detaching twice is harmless.
func (d *Document) DetachMarker(id MarkerID) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.markers.Detach(id)
	return nil
}

// LiveMarkers returns the IDs of all attached markers in creation order.
func (d *Document) LiveMarkers() []MarkerID { return d.markers.Live() }

// ---- Restrictions ----

// Bounds returns the accessible character range.
func (d *Document) Bounds() (lo, hi int) { return d.bounds.Bounds() }

// Narrow restricts access to [lo, hi), clamped to the enclosing bounds.
// A second Narrow replaces the first.
func (d *Document) Narrow(lo, hi int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.bounds.Narrow(lo, hi)
	return nil
}

// Widen removes the unlabeled narrowing. Labeled restrictions stay: code
// holding a label is the only code that can pop it.
func (d *Document) Widen() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.bounds.Widen()
	return nil
}

// PushRestriction installs a labeled restriction to [lo, hi).
func (d *Document) PushRestriction(lo, hi int, label string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.bounds.PushLabeled(lo, hi, label)
	return nil
}

// PopRestriction removes the labeled restriction and everything pushed
// above it, restoring the narrowing state saved at push time.
func (d *Document) PopRestriction(label string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.bounds.PopLabeled(label)
}

// WithFullBounds runs fn with every restriction lifted, then restores them,
// clamped to whatever fn did to the text.
func (d *Document) WithFullBounds(fn func() error) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.bounds.WithFullBounds(fn)
}

// ---- Fields ----

// FieldAt resolves the field around pos from the annotation source. Without
// a source the whole accessible range is one field. When escapeFromEdge is
// set and pos sits on a field edge, the position is interpreted as
// belonging to the preceding field.
func (d *Document) FieldAt(pos int, escapeFromEdge bool) (FieldRange, error) {
	if err := d.checkOpen(); err != nil {
		return FieldRange{}, err
	}
	if err := d.checkPos(pos); err != nil {
		return FieldRange{}, err
	}
	lo, hi := d.bounds.Bounds()
	if d.ann == nil {
		return FieldRange{Start: lo, End: hi}, nil
	}
	return field.Resolve(d.ann, pos, escapeFromEdge, lo, hi)
}

// ---- Grapheme navigation ----

// NextGrapheme returns the position just past the grapheme cluster at pos,
// clamped to the accessible range.
func (d *Document) NextGrapheme(pos int) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if err := d.checkPos(pos); err != nil {
		return 0, err
	}
	_, hi := d.bounds.Bounds()
	next := d.store.NextGrapheme(pos)
	if next > hi {
		next = hi
	}
	return next, nil
}

// PrevGrapheme returns the start of the grapheme cluster before pos,
// clamped to the accessible range.
func (d *Document) PrevGrapheme(pos int) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if err := d.checkPos(pos); err != nil {
		return 0, err
	}
	lo, _ := d.bounds.Bounds()
	prev := d.store.PrevGrapheme(pos)
	if prev < lo {
		prev = lo
	}
	return prev, nil
}
