package loom

import (
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"

	"github.com/loomengine/loom/field"
	"github.com/loomengine/loom/textstore"
)

// Option configures a Document at construction time.
type Option func(*Document)

// WithContent seeds the document with initial text. Invalid UTF-8 is
// replaced with U+FFFD.
func WithContent(text string) Option {
	return func(d *Document) {
		d.store = textstore.FromString(text)
	}
}

// WithReader seeds the document from a reader, decoding with enc. A nil
// encoding means the input is already UTF-8. Construction fails open: on a
// read error the document starts empty and the error is logged.
func WithReader(r io.Reader, enc encoding.Encoding) Option {
	return func(d *Document) {
		s, err := textstore.FromReader(r, enc)
		if err != nil {
			d.logger.Error("reading initial content", "err", err)
			return
		}
		d.store = s
	}
}

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithHooks installs the change-notification hooks.
func WithHooks(h Hooks) Option {
	return func(d *Document) {
		d.hooks = h
	}
}

// WithAnnotations installs the annotation source consulted by FieldAt.
func WithAnnotations(src field.Source) Option {
	return func(d *Document) {
		d.ann = src
	}
}
