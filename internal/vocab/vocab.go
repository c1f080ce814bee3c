// Package vocab maps characters to symbol indices and back.
//
// The alphabet is fixed: the word delimiter '.' at index 0 followed by the
// lowercase letters 'a'..'z' at 1..26.
package vocab

// Size is the number of symbols.
const Size = 27

// Delimiter is the index of the word delimiter symbol '.'.
const Delimiter = 0

const (
	delimiterRune = '.'
	fallback      = Size - 1 // 'z'
)

// Encode returns the index of r. Anything outside '.' and 'a'..'z'
// collapses to the index of 'z'.
func Encode(r rune) int {
	switch {
	case r == delimiterRune:
		return Delimiter
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 1
	default:
		return fallback
	}
}

// Decode returns the symbol at index i. Out-of-range indices decode as 'z'.
func Decode(i int) rune {
	switch {
	case i == Delimiter:
		return delimiterRune
	case i > 0 && i < Size:
		return rune('a' + i - 1)
	default:
		return 'z'
	}
}

// EncodeWord encodes every rune of word and appends the delimiter.
//
//	EncodeWord("ab") // [1 2 0]
func EncodeWord(word string) []int {
	out := make([]int, 0, len(word)+1)
	for _, r := range word {
		out = append(out, Encode(r))
	}
	return append(out, Delimiter)
}
