package textstore

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates a character position outside the store.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidOffset indicates a byte offset that does not fall on a
	// character boundary.
	ErrInvalidOffset = errors.New("byte offset not on a character boundary")

	// ErrLengthMismatch indicates an in-place overwrite whose replacement
	// rune has a different encoded length than the rune it replaces.
	ErrLengthMismatch = errors.New("encoded rune lengths differ")
)

// minGap is the smallest reserve kept when the gap is regrown.
const minGap = 64

// Store is a gap buffer holding UTF-8 text.
//
// A Store is owned by a single document and must not be mutated
// concurrently. See the package documentation for the invariants it
// maintains.
type Store struct {
	data     []byte
	gapStart int // byte index where the gap begins
	gapEnd   int // byte index one past the gap
	chars    int // cached character count

	// Last char<->byte conversion, in content coordinates (gap excluded).
	cacheChar int
	cacheByte int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data:   make([]byte, minGap),
		gapEnd: minGap,
	}
}

// FromString creates a store holding s. Invalid UTF-8 sequences are
// replaced with U+FFFD so the content invariant holds from the start.
func FromString(s string) *Store {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	data := make([]byte, len(s)+minGap)
	copy(data, s)
	return &Store{
		data:     data,
		gapStart: len(s),
		gapEnd:   len(s) + minGap,
		chars:    utf8.RuneCountInString(s),
	}
}

// FromReader creates a store from r. If enc is non-nil the input is decoded
// to UTF-8 through it; a nil enc means the input is already UTF-8 (invalid
// bytes are replaced, as in FromString).
func FromReader(r io.Reader, enc encoding.Encoding) (*Store, error) {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(string(data)), nil
}

// ByteLen returns the content length in bytes.
func (s *Store) ByteLen() int {
	return len(s.data) - (s.gapEnd - s.gapStart)
}

// CharLen returns the content length in characters.
func (s *Store) CharLen() int {
	return s.chars
}

// byteAt returns the content byte at logical offset off.
func (s *Store) byteAt(off int) byte {
	if off < s.gapStart {
		return s.data[off]
	}
	return s.data[off+s.gapEnd-s.gapStart]
}

// moveGap relocates the gap so it begins at logical byte offset off.
// off must be a rune boundary.
func (s *Store) moveGap(off int) {
	if off == s.gapStart {
		return
	}
	if off < s.gapStart {
		n := s.gapStart - off
		copy(s.data[s.gapEnd-n:s.gapEnd], s.data[off:s.gapStart])
		s.gapStart = off
		s.gapEnd -= n
		return
	}
	n := off - s.gapStart
	copy(s.data[s.gapStart:s.gapStart+n], s.data[s.gapEnd:s.gapEnd+n])
	s.gapStart += n
	s.gapEnd += n
}

// ensureGap grows the buffer so the gap holds at least n bytes.
// Growth is geometric plus a fixed reserve so repeated small inserts do not
// reallocate every time.
func (s *Store) ensureGap(n int) {
	if s.gapEnd-s.gapStart >= n {
		return
	}
	grow := n + minGap + len(s.data)/2
	newData := make([]byte, len(s.data)+grow)
	copy(newData, s.data[:s.gapStart])
	newGapEnd := s.gapEnd + grow
	copy(newData[newGapEnd:], s.data[s.gapEnd:])
	s.data = newData
	s.gapEnd = newGapEnd
}

// Insert inserts text at character position pos. Invalid UTF-8 in text is
// replaced with U+FFFD.
func (s *Store) Insert(pos int, text string) error {
	if pos < 0 || pos > s.chars {
		return ErrOutOfRange
	}
	if text == "" {
		return nil
	}
	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	off := s.charToByte(pos)
	s.moveGap(off)
	s.ensureGap(len(text))
	copy(s.data[s.gapStart:], text)
	s.gapStart += len(text)
	s.chars += utf8.RuneCountInString(text)

	s.cacheChar = pos + utf8.RuneCountInString(text)
	s.cacheByte = off + len(text)
	return nil
}

// Delete removes the characters in [start, end).
func (s *Store) Delete(start, end int) error {
	if start < 0 || start > end || end > s.chars {
		return ErrOutOfRange
	}
	if start == end {
		return nil
	}
	bs := s.charToByte(start)
	be := s.charToByte(end)
	s.moveGap(bs)
	s.gapEnd += be - bs
	s.chars -= end - start

	s.cacheChar = start
	s.cacheByte = bs
	return nil
}

// Slice returns the text of the character range [start, end).
func (s *Store) Slice(start, end int) (string, error) {
	if start < 0 || start > end || end > s.chars {
		return "", ErrOutOfRange
	}
	bs := s.charToByte(start)
	be := s.charToByte(end)
	return string(s.bytesRange(bs, be)), nil
}

// Text returns the full content.
func (s *Store) Text() string {
	return string(s.bytesRange(0, s.ByteLen()))
}

// RuneAt returns the character at position pos.
func (s *Store) RuneAt(pos int) (rune, error) {
	if pos < 0 || pos >= s.chars {
		return utf8.RuneError, ErrOutOfRange
	}
	off := s.charToByte(pos)
	w := runeWidth(s.byteAt(off))
	var buf [utf8.UTFMax]byte
	for i := 0; i < w; i++ {
		buf[i] = s.byteAt(off + i)
	}
	r, _ := utf8.DecodeRune(buf[:w])
	return r, nil
}

// OverwriteRuneAt replaces the character at pos with r without moving the
// gap. The replacement must have the same encoded length as the character it
// replaces; otherwise ErrLengthMismatch is returned and the store is
// unchanged. Because no length changes, no external positions shift.
func (s *Store) OverwriteRuneAt(pos int, r rune) error {
	if pos < 0 || pos >= s.chars {
		return ErrOutOfRange
	}
	off := s.charToByte(pos)
	w := runeWidth(s.byteAt(off))
	if utf8.RuneLen(r) != w {
		return ErrLengthMismatch
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	// The gap sits on a rune boundary, so all n bytes land on one side.
	phys := off
	if off >= s.gapStart {
		phys += s.gapEnd - s.gapStart
	}
	copy(s.data[phys:phys+n], buf[:n])
	return nil
}

// bytesRange copies the content bytes of the logical range [bs, be).
func (s *Store) bytesRange(bs, be int) []byte {
	out := make([]byte, be-bs)
	gap := s.gapEnd - s.gapStart
	switch {
	case be <= s.gapStart:
		copy(out, s.data[bs:be])
	case bs >= s.gapStart:
		copy(out, s.data[bs+gap:be+gap])
	default:
		n := copy(out, s.data[bs:s.gapStart])
		copy(out[n:], s.data[s.gapEnd:s.gapEnd+be-s.gapStart])
	}
	return out
}

// runeWidth returns the encoded length of the rune starting with byte b.
// Content bytes are valid UTF-8, so b is never a continuation byte here.
func runeWidth(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// isCont reports whether b is a UTF-8 continuation byte.
func isCont(b byte) bool {
	return b&0xC0 == 0x80
}
