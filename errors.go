package loom

import (
	"errors"

	"github.com/loomengine/loom/marker"
	"github.com/loomengine/loom/restrict"
	"github.com/loomengine/loom/textstore"
)

// Errors returned by document operations. The position errors are the
// sub-package sentinels re-exported, so errors.Is works across layers.
var (
	// ErrOutOfRange indicates a position outside the document or outside
	// the active restriction.
	ErrOutOfRange = textstore.ErrOutOfRange

	// ErrInvalidOffset indicates a byte offset inside a multibyte character.
	ErrInvalidOffset = textstore.ErrInvalidOffset

	// ErrLengthMismatch indicates a substitution whose characters encode to
	// different lengths.
	ErrLengthMismatch = textstore.ErrLengthMismatch

	// ErrDetached indicates use of a detached marker handle.
	ErrDetached = marker.ErrDetached

	// ErrNoSuchLabel indicates popping a restriction label that is not
	// active.
	ErrNoSuchLabel = restrict.ErrNoSuchLabel

	// ErrDocumentClosed indicates an operation on a closed document.
	ErrDocumentClosed = errors.New("document is closed")

	// ErrBadTable indicates a malformed translation table.
	ErrBadTable = errors.New("malformed translation table")
)
