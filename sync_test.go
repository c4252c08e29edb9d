package loom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceRegionMinimalInsert(t *testing.T) {
	d := New(WithContent("The quick fox"))
	before, _ := d.CreateMarker(4, AffinityForward) // inside "quick"
	after, _ := d.CreateMarker(12, AffinityForward) // inside "fox"

	res, err := d.ReplaceRegion(context.Background(), 0, 13, "The quick brown fox", DefaultSyncOptions())
	require.NoError(t, err)

	assert.Equal(t, "The quick brown fox", d.Text())
	assert.False(t, res.Aborted)
	assert.True(t, res.Complete)
	assert.Equal(t, 1, res.Hunks, "a single word insert is a single sub-edit")
	assert.Equal(t, 6, res.Inserted)
	assert.Zero(t, res.Deleted)

	pb, _ := d.MarkerPos(before)
	pa, _ := d.MarkerPos(after)
	assert.Equal(t, 4, pb, "marker before the insertion is untouched")
	assert.Equal(t, 18, pa, "marker after the insertion shifted by its length")
}

func TestReplaceRegionNoChange(t *testing.T) {
	var pre int
	d := New(WithContent("stable"), WithHooks(Hooks{
		PreChange: func(s, e int) { pre++ },
	}))

	res, err := d.ReplaceRegion(context.Background(), 0, 6, "stable", DefaultSyncOptions())
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Zero(t, res.Hunks)
	assert.Zero(t, pre, "matching content records nothing")
}

func TestReplaceRegionEqualLength(t *testing.T) {
	d := New(WithContent("aaaaXXaaaa"))
	left, _ := d.CreateMarker(2, AffinityForward)
	right, _ := d.CreateMarker(8, AffinityForward)

	res, err := d.ReplaceRegion(context.Background(), 0, 10, "aaaaYYaaaa", DefaultSyncOptions())
	require.NoError(t, err)

	assert.Equal(t, "aaaaYYaaaa", d.Text())
	assert.Equal(t, 1, res.Hunks)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 2, res.Deleted)

	pl, _ := d.MarkerPos(left)
	pr, _ := d.MarkerPos(right)
	assert.Equal(t, 2, pl)
	assert.Equal(t, 8, pr, "markers outside the differing middle never move")
}

func TestReplaceRegionAbortFallsBack(t *testing.T) {
	d := New(WithContent("completely different"))
	inside, _ := d.CreateMarker(10, AffinityForward)

	res, err := d.ReplaceRegion(context.Background(), 0, 20, "nothing in common here!", SyncOptions{CostBudget: 0})
	require.NoError(t, err, "an aborted diff is not an error")

	assert.True(t, res.Aborted)
	assert.True(t, res.Complete)
	assert.Equal(t, "nothing in common here!", d.Text())
	assert.Equal(t, 1, res.Hunks)

	pos, _ := d.MarkerPos(inside)
	assert.Equal(t, 0, pos, "wholesale replacement collapses interior markers to the start")
}

func TestReplaceRegionSubrange(t *testing.T) {
	d := New(WithContent("head MIDDLE tail"))

	res, err := d.ReplaceRegion(context.Background(), 5, 11, "CENTER", DefaultSyncOptions())
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, "head CENTER tail", d.Text())
}

func TestReplaceRegionPreservesCommonLines(t *testing.T) {
	old := "alpha\ncommon\nbeta\n"
	d := New(WithContent(old))
	anchor, _ := d.CreateMarker(8, AffinityForward) // inside "common"

	res, err := d.ReplaceRegion(context.Background(), 0, len([]rune(old)), "gamma\ncommon\ndelta\n", DefaultSyncOptions())
	require.NoError(t, err)
	assert.Equal(t, "gamma\ncommon\ndelta\n", d.Text())
	assert.True(t, res.Complete)

	pos, _ := d.MarkerPos(anchor)
	r, _ := d.RuneAt(pos)
	assert.Equal(t, 'm', r, "marker inside unchanged text still points at the same character")
}

func TestReplaceRegionOneNotification(t *testing.T) {
	var pre, post int
	d := New(WithContent("one two three"), WithHooks(Hooks{
		PreChange:  func(s, e int) { pre++ },
		PostChange: func(s, lb, la int) { post++ },
	}))

	res, err := d.ReplaceRegion(context.Background(), 0, 13, "one 2 three four", DefaultSyncOptions())
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.GreaterOrEqual(t, res.Hunks, 1)
	assert.Equal(t, 1, pre, "many hunks, one logical mutation")
	assert.Equal(t, 1, post)
}

func TestReplaceRegionCanceledContext(t *testing.T) {
	d := New(WithContent("some old text"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A dead context aborts the diff, which degrades to the wholesale
	// replacement. The text still converges.
	res, err := d.ReplaceRegion(ctx, 0, 13, "brand new contents", SyncOptions{CostBudget: -1})
	require.NoError(t, err)
	assert.Equal(t, "brand new contents", d.Text())
	assert.True(t, res.Complete)
}

func TestReplaceRegionHookMutationRejected(t *testing.T) {
	var d *Document
	fired := false
	d = New(WithContent("abcdefgh"), WithHooks(Hooks{
		PreChange: func(s, e int) {
			if fired {
				return
			}
			fired = true
			_ = d.Delete(6, 8)
		},
	}))

	_, err := d.ReplaceRegion(context.Background(), 0, 8, "abXdefgh", DefaultSyncOptions())
	assert.ErrorIs(t, err, ErrOutOfRange, "the script was computed against a snapshot")
}

func TestReplaceRegionEndMarkerTracksNewEnd(t *testing.T) {
	// A trailing pure-insert hunk must not leave an end marker behind:
	// whatever its affinity, a marker at the region end lands at the end of
	// the new text, exactly as the wholesale fallback would place it.
	for _, aff := range []Affinity{AffinityBackward, AffinityForward} {
		d := New(WithContent("The quick fox"))
		m, _ := d.CreateMarker(13, aff)

		res, err := d.ReplaceRegion(context.Background(), 0, 13, "The quick fox!!", DefaultSyncOptions())
		require.NoError(t, err)
		assert.False(t, res.Aborted)
		assert.Equal(t, "The quick fox!!", d.Text())

		pos, _ := d.MarkerPos(m)
		assert.Equal(t, 15, pos, "end marker with %s affinity", aff)
	}
}

func TestReplaceRegionStartMarkerStays(t *testing.T) {
	// The mirror case: a leading pure-insert hunk must not drag a start
	// marker into the inserted text.
	for _, aff := range []Affinity{AffinityBackward, AffinityForward} {
		d := New(WithContent("quick fox"))
		m, _ := d.CreateMarker(0, aff)

		res, err := d.ReplaceRegion(context.Background(), 0, 9, ">> quick fox", DefaultSyncOptions())
		require.NoError(t, err)
		assert.False(t, res.Aborted)
		assert.Equal(t, ">> quick fox", d.Text())

		pos, _ := d.MarkerPos(m)
		assert.Equal(t, 0, pos, "start marker with %s affinity", aff)
	}
}

func TestReplaceRegionBoundaryMarkersEqualLength(t *testing.T) {
	d := New(WithContent("aaXXbb"))
	s, _ := d.CreateMarker(0, AffinityForward)
	e, _ := d.CreateMarker(6, AffinityBackward)

	_, err := d.ReplaceRegion(context.Background(), 0, 6, "aaYYbb", DefaultSyncOptions())
	require.NoError(t, err)

	ps, _ := d.MarkerPos(s)
	pe, _ := d.MarkerPos(e)
	assert.Equal(t, 0, ps)
	assert.Equal(t, 6, pe)
}

func TestReplaceRegionBoundaryMarkersOnAbort(t *testing.T) {
	d := New(WithContent("abcdef"))
	s, _ := d.CreateMarker(0, AffinityForward)
	e, _ := d.CreateMarker(6, AffinityBackward)

	res, err := d.ReplaceRegion(context.Background(), 0, 6, "uvwxyz!!", SyncOptions{CostBudget: 0})
	require.NoError(t, err)
	require.True(t, res.Aborted)

	ps, _ := d.MarkerPos(s)
	pe, _ := d.MarkerPos(e)
	assert.Equal(t, 0, ps, "start marker stays on the fallback path too")
	assert.Equal(t, 8, pe, "end marker tracks the new end on the fallback path too")
}

func TestReplaceRegionClosed(t *testing.T) {
	d := New(WithContent("abc"))
	d.Close()

	_, err := d.ReplaceRegion(context.Background(), 0, 3, "xyz", DefaultSyncOptions())
	assert.ErrorIs(t, err, ErrDocumentClosed)
}
