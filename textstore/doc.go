// Package textstore provides the gap-buffered byte store underlying a
// document, together with the position model that converts between
// character indexes and byte offsets.
//
// The store keeps document content as UTF-8 bytes in a single slice with a
// movable gap of unused capacity. Edits relocate the gap to the edit point,
// so spatially local insertions and deletions are amortized O(1); an edit far
// from the gap pays one O(n) gap move. The store maintains three invariants:
//
//   - bytes outside the gap are always valid UTF-8
//   - the gap sits on a rune boundary and is never addressable by a position
//   - the character count is at most the byte count, equal only for ASCII
//
// Positions are 0-based character indexes. 0 is the beginning of the store
// and CharLen() is the end sentinel: a valid insertion point but not a
// readable position.
//
// Conversion between the two coordinate spaces is monotonic and cached: the
// last converted (char, byte) pair is remembered so sequential scans near a
// recently touched position cost O(distance) from the nearest of the store
// start, the cache, or the store end.
package textstore
