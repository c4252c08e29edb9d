package textstore

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestNewStore(t *testing.T) {
	s := New()

	if s.CharLen() != 0 {
		t.Errorf("expected 0 chars, got %d", s.CharLen())
	}
	if s.ByteLen() != 0 {
		t.Errorf("expected 0 bytes, got %d", s.ByteLen())
	}
	if s.Text() != "" {
		t.Errorf("expected empty text, got %q", s.Text())
	}
}

func TestFromString(t *testing.T) {
	s := FromString("héllo")

	if s.CharLen() != 5 {
		t.Errorf("expected 5 chars, got %d", s.CharLen())
	}
	if s.ByteLen() != 6 {
		t.Errorf("expected 6 bytes, got %d", s.ByteLen())
	}
	if s.Text() != "héllo" {
		t.Errorf("expected %q, got %q", "héllo", s.Text())
	}
}

func TestFromStringInvalidUTF8(t *testing.T) {
	s := FromString("a\xffb")

	if s.Text() != "a�b" {
		t.Errorf("invalid bytes should be replaced, got %q", s.Text())
	}
	if s.CharLen() != 3 {
		t.Errorf("expected 3 chars, got %d", s.CharLen())
	}
}

func TestInsert(t *testing.T) {
	s := FromString("Hello World")

	if err := s.Insert(5, ","); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if s.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", s.Text())
	}
}

func TestInsertMultibyte(t *testing.T) {
	s := FromString("abc")

	if err := s.Insert(1, "日本"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if s.Text() != "a日本bc" {
		t.Errorf("expected %q, got %q", "a日本bc", s.Text())
	}
	if s.CharLen() != 5 {
		t.Errorf("expected 5 chars, got %d", s.CharLen())
	}
	if s.ByteLen() != 9 {
		t.Errorf("expected 9 bytes, got %d", s.ByteLen())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	s := FromString("abc")

	if err := s.Insert(4, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.Insert(-1, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := FromString("abcdef")

	if err := s.Delete(2, 4); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.Text() != "abef" {
		t.Errorf("expected 'abef', got %q", s.Text())
	}
	if s.CharLen() != 4 {
		t.Errorf("expected 4 chars, got %d", s.CharLen())
	}
}

func TestDeleteMultibyte(t *testing.T) {
	s := FromString("a日本bc")

	if err := s.Delete(1, 3); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.Text() != "abc" {
		t.Errorf("expected 'abc', got %q", s.Text())
	}
	if s.ByteLen() != 3 {
		t.Errorf("expected 3 bytes, got %d", s.ByteLen())
	}
}

func TestDeleteInvalidRange(t *testing.T) {
	s := FromString("abc")

	if err := s.Delete(2, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.Delete(0, 4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	s := FromString("a日本bc")

	got, err := s.Slice(1, 3)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if got != "日本" {
		t.Errorf("expected %q, got %q", "日本", got)
	}
}

func TestSliceAcrossGap(t *testing.T) {
	s := FromString("abcdef")
	// Park the gap in the middle, then read across it.
	if err := s.Insert(3, "XYZ"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := s.Slice(1, 8)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if got != "bcXYZde" {
		t.Errorf("expected 'bcXYZde', got %q", got)
	}
}

func TestRuneAt(t *testing.T) {
	s := FromString("a日b")

	r, err := s.RuneAt(1)
	if err != nil {
		t.Fatalf("RuneAt failed: %v", err)
	}
	if r != '日' {
		t.Errorf("expected 日, got %c", r)
	}

	if _, err := s.RuneAt(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCharToByte(t *testing.T) {
	s := FromString("héllo")

	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{5, 6},
	}
	for _, tt := range tests {
		got, err := s.CharToByte(tt.pos)
		if err != nil {
			t.Fatalf("CharToByte(%d) failed: %v", tt.pos, err)
		}
		if got != tt.want {
			t.Errorf("CharToByte(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}

	if _, err := s.CharToByte(6); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestByteToChar(t *testing.T) {
	s := FromString("héllo")

	tests := []struct {
		off  int
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{6, 5},
	}
	for _, tt := range tests {
		got, err := s.ByteToChar(tt.off)
		if err != nil {
			t.Fatalf("ByteToChar(%d) failed: %v", tt.off, err)
		}
		if got != tt.want {
			t.Errorf("ByteToChar(%d) = %d, want %d", tt.off, got, tt.want)
		}
	}
}

func TestByteToCharMidRune(t *testing.T) {
	s := FromString("héllo")

	if _, err := s.ByteToChar(2); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
}

func TestConversionMonotonic(t *testing.T) {
	s := FromString("aé日🎉z")

	prev := -1
	for pos := 0; pos <= s.CharLen(); pos++ {
		off, err := s.CharToByte(pos)
		if err != nil {
			t.Fatalf("CharToByte(%d) failed: %v", pos, err)
		}
		if off <= prev {
			t.Fatalf("conversion not monotonic at %d: %d <= %d", pos, off, prev)
		}
		prev = off
	}
}

func TestOverwriteRuneAt(t *testing.T) {
	s := FromString("abc")

	if err := s.OverwriteRuneAt(1, 'x'); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if s.Text() != "axc" {
		t.Errorf("expected 'axc', got %q", s.Text())
	}
}

func TestOverwriteRuneAtLengthMismatch(t *testing.T) {
	s := FromString("abc")

	if err := s.OverwriteRuneAt(1, 'é'); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if s.Text() != "abc" {
		t.Errorf("store should be unchanged, got %q", s.Text())
	}
}

func TestCharNeverExceedsBytes(t *testing.T) {
	s := New()
	steps := []func(){
		func() { s.Insert(0, "héllo wörld") },
		func() { s.Insert(5, "日本語") },
		func() { s.Delete(2, 7) },
		func() { s.Insert(0, "🎉") },
		func() { s.Delete(0, 1) },
		func() { s.Insert(s.CharLen(), "end") },
	}
	for i, step := range steps {
		step()
		if s.CharLen() > s.ByteLen() {
			t.Fatalf("step %d: char count %d exceeds byte count %d", i, s.CharLen(), s.ByteLen())
		}
	}
}

func TestAlternatingFarEdits(t *testing.T) {
	// Worst case for the gap: edits alternate between the two ends.
	// Correctness must hold even though each edit pays a gap move.
	s := FromString(strings.Repeat("x", 1000))

	for i := 0; i < 50; i++ {
		if err := s.Insert(0, "a"); err != nil {
			t.Fatalf("head insert %d failed: %v", i, err)
		}
		if err := s.Insert(s.CharLen(), "z"); err != nil {
			t.Fatalf("tail insert %d failed: %v", i, err)
		}
	}

	text := s.Text()
	if len(text) != 1100 {
		t.Fatalf("expected 1100 bytes, got %d", len(text))
	}
	if !strings.HasPrefix(text, strings.Repeat("a", 50)) {
		t.Error("head inserts out of order")
	}
	if !strings.HasSuffix(text, strings.Repeat("z", 50)) {
		t.Error("tail inserts out of order")
	}
}

func TestRoundTrip(t *testing.T) {
	original := "line one\n日本語 text\nemoji 🎉 here\n"
	s := FromString(original)

	if s.Text() != original {
		t.Errorf("round trip failed: got %q", s.Text())
	}

	// Edit and verify the full read again.
	s.Insert(4, " two")
	s.Delete(0, 4)
	if got, want := s.Text(), " two one\n日本語 text\nemoji 🎉 here\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFromReaderLatin1(t *testing.T) {
	// 0xE9 is é in Latin-1.
	r := strings.NewReader("caf\xe9")
	s, err := FromReader(r, charmap.ISO8859_1)
	if err != nil {
		t.Fatalf("FromReader failed: %v", err)
	}
	if s.Text() != "café" {
		t.Errorf("expected 'café', got %q", s.Text())
	}
}

func TestFromReaderUTF8(t *testing.T) {
	s, err := FromReader(strings.NewReader("plain"), nil)
	if err != nil {
		t.Fatalf("FromReader failed: %v", err)
	}
	if s.Text() != "plain" {
		t.Errorf("expected 'plain', got %q", s.Text())
	}
}

func TestGraphemeCount(t *testing.T) {
	// Family emoji: one cluster, many runes.
	s := FromString("a👨‍👩‍👧b")

	if got := s.GraphemeCount(); got != 3 {
		t.Errorf("expected 3 clusters, got %d", got)
	}
}

func TestNextPrevGrapheme(t *testing.T) {
	s := FromString("a👨‍👩‍👧b")
	// Runes: a(1) + family(5: man ZWJ woman ZWJ girl) + b(1) = 7 chars.

	if got := s.NextGrapheme(0); got != 1 {
		t.Errorf("NextGrapheme(0) = %d, want 1", got)
	}
	if got := s.NextGrapheme(1); got != 6 {
		t.Errorf("NextGrapheme(1) = %d, want 6", got)
	}
	if got := s.PrevGrapheme(6); got != 1 {
		t.Errorf("PrevGrapheme(6) = %d, want 1", got)
	}
	if got := s.PrevGrapheme(1); got != 0 {
		t.Errorf("PrevGrapheme(1) = %d, want 0", got)
	}
	if got := s.NextGrapheme(s.CharLen()); got != s.CharLen() {
		t.Errorf("NextGrapheme(end) = %d, want %d", got, s.CharLen())
	}
}
