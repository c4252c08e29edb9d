// Package marker tracks live external references into a document's text.
//
// A marker is a character position plus an insertion affinity: when text is
// inserted exactly at a marker, a forward-affinity marker moves past the
// insertion while a backward-affinity marker stays put. The registry is an
// arena addressed by stable integer handles, so re-anchoring after a
// mutation is one linear pass over the arena rather than a pointer chase,
// and handles stay valid however the arena grows.
//
// The registry holds no ownership over markers: detaching frees the slot for
// reuse and any later use of the handle reports ErrDetached. It is owned by
// a single document and adjusted only from that document's own mutations.
package marker
