package textstore

// Position model: conversion between the two coordinate spaces.
//
// Conversions are monotonic (a < b in characters implies a < b in bytes) and
// scan rune-by-rune from the nearest known anchor: the store start, the
// cached last conversion, or the store end. The dominant access pattern is
// sequential scanning near a recently touched position, which the cache makes
// O(1) per step.

// CharToByte converts a character position to its byte offset.
func (s *Store) CharToByte(pos int) (int, error) {
	if pos < 0 || pos > s.chars {
		return 0, ErrOutOfRange
	}
	return s.charToByte(pos), nil
}

// ByteToChar converts a byte offset to its character position.
// Offsets inside a multibyte character yield ErrInvalidOffset.
func (s *Store) ByteToChar(off int) (int, error) {
	if off < 0 || off > s.ByteLen() {
		return 0, ErrOutOfRange
	}
	if off < s.ByteLen() && isCont(s.byteAt(off)) {
		return 0, ErrInvalidOffset
	}

	// Nearest anchor wins; distances are in bytes.
	ac, ab := s.nearestAnchorByByte(off)
	c := ac
	switch {
	case ab < off:
		for b := ab; b < off; c++ {
			b += runeWidth(s.byteAt(b))
		}
	case ab > off:
		for b := ab; b > off; c-- {
			b--
			for b > 0 && isCont(s.byteAt(b)) {
				b--
			}
		}
	}
	s.cacheChar = c
	s.cacheByte = off
	return c, nil
}

// charToByte is CharToByte without validation; pos must be in [0, chars].
func (s *Store) charToByte(pos int) int {
	ac, ab := s.nearestAnchorByChar(pos)
	b := ab
	switch {
	case ac < pos:
		for c := ac; c < pos; c++ {
			b += runeWidth(s.byteAt(b))
		}
	case ac > pos:
		for c := ac; c > pos; c-- {
			b--
			for b > 0 && isCont(s.byteAt(b)) {
				b--
			}
		}
	}
	s.cacheChar = pos
	s.cacheByte = b
	return b
}

// nearestAnchorByChar picks the conversion anchor closest to pos in
// character distance.
func (s *Store) nearestAnchorByChar(pos int) (int, int) {
	ac, ab := 0, 0
	best := pos
	if d := abs(pos - s.cacheChar); d < best {
		ac, ab = s.cacheChar, s.cacheByte
		best = d
	}
	if d := s.chars - pos; d < best {
		ac, ab = s.chars, s.ByteLen()
	}
	return ac, ab
}

// nearestAnchorByByte picks the conversion anchor closest to off in byte
// distance.
func (s *Store) nearestAnchorByByte(off int) (int, int) {
	ac, ab := 0, 0
	best := off
	if d := abs(off - s.cacheByte); d < best {
		ac, ab = s.cacheChar, s.cacheByte
		best = d
	}
	if d := s.ByteLen() - off; d < best {
		ac, ab = s.chars, s.ByteLen()
	}
	return ac, ab
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
