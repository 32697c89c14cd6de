package trie

import (
	"unicode"
	"unicode/utf8"
)

// Symbol is the alphabet of an automaton. A byte automaton matches raw bytes
// and reports byte offsets; a rune automaton matches code points and reports
// code-point offsets.
type Symbol interface {
	byte | rune
}

// foldFunc returns the single-symbol case folding used for both insertion and
// scanning. Byte automatons fold ASCII only; rune automatons lower-case each
// code point independently (no multi-rune folding).
func foldFunc[S Symbol]() func(S) S {
	var zero S
	switch any(zero).(type) {
	case byte:
		return any(foldByte).(func(S) S)
	default:
		return any(unicode.ToLower).(func(S) S)
	}
}

func foldByte(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// decodeFunc returns the conversion from a Go string to the automaton's symbols.
func decodeFunc[S Symbol]() func(string) []S {
	var zero S
	switch any(zero).(type) {
	case byte:
		return any(func(s string) []byte { return []byte(s) }).(func(string) []S)
	default:
		return any(func(s string) []rune { return []rune(s) }).(func(string) []S)
	}
}

// validFunc returns the check a pattern must pass before insertion. Any byte
// string is a valid byte pattern; rune patterns must be valid UTF-8, since
// every invalid byte would otherwise decode to the same U+FFFD symbol.
func validFunc[S Symbol]() func(string) bool {
	var zero S
	switch any(zero).(type) {
	case byte:
		return func(string) bool { return true }
	default:
		return utf8.ValidString
	}
}
