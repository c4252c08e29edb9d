package loom

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// TransTable maps characters and character sequences to replacement
// strings. Build one with NewTransTable and the chained Map / MapSeq
// methods; a table is reusable across documents and calls.
type TransTable struct {
	singles map[rune]string
	seqs    []seqRule
	sorted  bool
	badSeq  bool
}

type seqRule struct {
	from []rune
	to   string
}

// NewTransTable returns an empty translation table.
func NewTransTable() *TransTable {
	return &TransTable{singles: make(map[rune]string)}
}

// Map adds a single-character rule. An empty replacement deletes the
// character. Returns the table for chaining.
func (t *TransTable) Map(from rune, to string) *TransTable {
	t.singles[from] = strings.ToValidUTF8(to, "�")
	return t
}

// MapSeq adds a multi-character rule. Longer sequences win over shorter
// ones at the same position. Returns the table for chaining.
func (t *TransTable) MapSeq(from, to string) *TransTable {
	runes := []rune(strings.ToValidUTF8(from, "�"))
	if len(runes) == 0 {
		t.badSeq = true
		return t
	}
	t.seqs = append(t.seqs, seqRule{from: runes, to: strings.ToValidUTF8(to, "�")})
	t.sorted = false
	return t
}

func (t *TransTable) validate() error {
	if t.badSeq {
		return fmt.Errorf("%w: empty source sequence", ErrBadTable)
	}
	return nil
}

// rules returns the sequence rules longest-first, so the longest match at a
// position wins; among equal lengths, the earliest-added rule wins.
func (t *TransTable) rules() []seqRule {
	if !t.sorted {
		sort.SliceStable(t.seqs, func(i, j int) bool {
			return len(t.seqs[i].from) > len(t.seqs[j].from)
		})
		t.sorted = true
	}
	return t.seqs
}

// Translate rewrites [start, end) through table in a single left-to-right
// pass and returns the number of replacements. Replacement text is never
// rescanned. Same-width single-character rules rewrite in place; everything
// else splices, shifting markers and restriction bounds like any edit. The
// range end tracks the net length change, so text that slides into the
// original range from beyond end is not translated.
//
// The whole pass is one logical mutation: one pre-change notification on
// the first replacement, one post-change at the end. ctx is polled at a
// bounded interval; cancellation stops the pass at a consistent prefix and
// returns the count so far with the context's error.
func (d *Document) Translate(ctx context.Context, start, end int, table *TransTable) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if err := d.checkRange(start, end); err != nil {
		return 0, err
	}
	if table == nil {
		return 0, fmt.Errorf("%w: nil table", ErrBadTable)
	}
	if err := table.validate(); err != nil {
		return 0, err
	}

	seqs := table.rules()
	lenBefore := end - start
	count := 0
	notified := false
	steps := 0

	notify := func() {
		if notified {
			return
		}
		if d.hooks.PreChange != nil {
			d.hooks.PreChange(start, end)
			// The hook may have edited; keep the pass inside the document.
			if hi := d.store.CharLen(); end > hi {
				end = hi
			}
		}
		notified = true
	}
	finish := func() {
		if notified {
			d.notifyPost(start, lenBefore, end-start, true)
		}
	}

	pos := start
scan:
	for pos < end {
		steps++
		if ctx != nil && steps%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				finish()
				d.logger.Debug("translate canceled", "doc", d.id, "at", pos, "replaced", count)
				return count, err
			}
		}

		for _, rule := range seqs {
			k := len(rule.from)
			if pos+k > end || !d.matchRunes(pos, rule.from) {
				continue
			}
			if string(rule.from) == rule.to {
				pos += k
				continue scan
			}
			notify()
			if err := d.applyReplace(pos, pos+k, rule.to); err != nil {
				finish()
				return count, err
			}
			n := utf8.RuneCountInString(rule.to)
			end += n - k
			pos += n
			count++
			continue scan
		}

		r, err := d.store.RuneAt(pos)
		if err != nil {
			finish()
			return count, err
		}
		to, ok := table.singles[r]
		if !ok {
			pos++
			continue
		}
		if nr, size := utf8.DecodeRuneInString(to); size == len(to) && size > 0 {
			// Single-character replacement.
			if nr == r {
				pos++
				continue
			}
			if utf8.RuneLen(nr) == utf8.RuneLen(r) {
				notify()
				if err := d.store.OverwriteRuneAt(pos, nr); err != nil {
					finish()
					return count, err
				}
				pos++
				count++
				continue
			}
		}
		notify()
		if err := d.applyReplace(pos, pos+1, to); err != nil {
			finish()
			return count, err
		}
		n := utf8.RuneCountInString(to)
		end += n - 1
		pos += n
		count++
	}
	finish()
	return count, nil
}

// matchRunes reports whether the characters at pos equal rs.
func (d *Document) matchRunes(pos int, rs []rune) bool {
	for i, want := range rs {
		got, err := d.store.RuneAt(pos + i)
		if err != nil || got != want {
			return false
		}
	}
	return true
}
