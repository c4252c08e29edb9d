// Package loom is the in-memory text-storage and region-editing engine
// underlying an interactive text editor.
//
// The engine is built on several sub-packages:
//
//   - textstore: gap-buffered UTF-8 storage with char/byte position model
//   - marker: stable, auto-adjusting references into the text
//   - restrict: nested visible-range restrictions (narrowing)
//   - field: annotation-derived field resolution
//   - textdiff: budgeted edit-distance scripts for region synchronization
//
// Document is the facade combining them. It validates positions against the
// active restriction, re-anchors every live marker and restriction bound on
// each mutation, and notifies the undo log and display layer through caller
// supplied hooks.
//
// # Concurrency
//
// A Document is single-threaded and cooperative: operations run to
// completion on the caller's goroutine, and nothing here locks. The one
// concurrency concern is reentrancy: notification hooks may themselves edit
// the document, so positions are re-validated after every hook call rather
// than assumed stable. Long operations (bulk mutation, region sync) poll a
// context at a bounded interval and stop at a consistent prefix when
// canceled.
//
// # Basic usage
//
//	doc := loom.New(loom.WithContent("Hello World"))
//
//	m, _ := doc.CreateMarker(6, loom.AffinityBackward)
//	doc.Insert(5, ",")            // "Hello, World"
//	pos, _ := doc.MarkerPos(m)    // 7: the marker followed its text
//
//	doc.Narrow(0, 5)              // only "Hello" is accessible
//	doc.Widen()
//
// Region synchronization replaces a range with the minimal edits needed to
// match a source text:
//
//	res, _ := doc.ReplaceRegion(ctx, 0, doc.CharLen(), newText,
//	    loom.DefaultSyncOptions())
//	if res.Aborted {
//	    // budgets exceeded: the range was replaced wholesale instead
//	}
package loom
