// Package restrict implements the per-document stack of visible-range
// restrictions ("narrowing").
//
// A restriction bounds the accessible character range of a document without
// touching its content. Restrictions nest: a labeled restriction is pushed
// on top of whatever is visible and popping it restores exactly the
// enclosing state. At most one unlabeled restriction (the ordinary
// narrowing) is active at a time; re-narrowing replaces it.
//
// Widen removes the ordinary narrowing only. While a labeled restriction is
// active, widening stops at that restriction's bounds; the document's true
// extent becomes reachable again only by popping the label. Callers that
// must see the true extent temporarily (redraw paths) use WithFullBounds,
// which restores the previous state on every exit path.
//
// Narrowing requests outside the current bounds are clamped to the innermost
// enclosing restriction, never rejected.
package restrict
