// Package alphabet orders romanized Pali headwords.
package alphabet

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters is the dictionary order. Aspirated consonants are single letters.
var letters = strings.Fields("a ā b bh c ch d dh ḍ ḍh e f g gh h i ī j jh k kh l ḷ m ṃ n ṅ ṇ ñ o p ph q r s t th ṭ ṭh u ū v w x y z -")

type indexedLetter struct {
	letter string
	index  int
}

var (
	// matchOrder lists digraphs before single letters so "bh" wins over "b".
	matchOrder []string
	// sorted is the alphabet sorted by byte order for binary search.
	sorted []indexedLetter
)

func init() {
	matchOrder = slices.Clone(letters)
	slices.SortStableFunc(matchOrder, func(a, b string) int {
		return cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a))
	})

	sorted = make([]indexedLetter, len(letters))
	for i, l := range letters {
		sorted[i] = indexedLetter{letter: l, index: i}
	}
	slices.SortFunc(sorted, func(a, b indexedLetter) int {
		return strings.Compare(a.letter, b.letter)
	})
}

// Len is the number of letters, also the index of the unclassified bucket.
func Len() int {
	return len(letters)
}

// Letters returns the alphabet in dictionary order.
func Letters() []string {
	return slices.Clone(letters)
}

// Letter returns the letter at index, or "" for the unclassified bucket.
func Letter(index int) string {
	if index < 0 || index >= len(letters) {
		return ""
	}
	return letters[index]
}

// Fold lower-cases a word in NFC and replaces the dotted-above niggahita with ṃ.
func Fold(word string) string {
	s := strings.ToLower(norm.NFC.String(strings.TrimSpace(word)))
	return strings.ReplaceAll(s, "ṁ", "ṃ")
}

// FirstLetter returns the leading letter of word, matching digraphs first.
func FirstLetter(word string) (string, bool) {
	s := Fold(word)
	for _, l := range matchOrder {
		if strings.HasPrefix(s, l) {
			return l, true
		}
	}
	return "", false
}

// LetterIndex returns the position of the leading letter of word in the
// alphabet, or Len() when it does not start with a known letter.
func LetterIndex(word string) int {
	l, ok := FirstLetter(word)
	if !ok {
		return Len()
	}
	i, found := slices.BinarySearchFunc(sorted, l, func(e indexedLetter, target string) int {
		return strings.Compare(e.letter, target)
	})
	if !found {
		return Len()
	}
	return sorted[i].index
}

var velthuis = strings.NewReplacer(
	"ā", "aa", "ī", "ii", "ū", "uu",
	"ṃ", ".m", "ṁ", ".m", "ṇ", ".n", "ñ", "~n",
	"ṭ", ".t", "ḍ", ".d", "ṅ", "\"n", "ḷ", ".l",
	"Ā", "AA", "Ī", "II", "Ū", "UU",
	"Ṃ", ".M", "Ṁ", ".M", "Ṇ", ".N", "Ñ", "~N",
	"Ṭ", ".T", "Ḍ", ".D", "Ṅ", "\"N", "Ḷ", ".L",
)

// ToVelthuis writes word in the Velthuis ASCII scheme (ā -> aa, ṃ -> .m).
func ToVelthuis(word string) string {
	return velthuis.Replace(norm.NFC.String(word))
}

// ASCII strips diacritics from word and drops any remaining non-ASCII runes.
func ASCII(word string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, word)
	if err != nil {
		s = word
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}
