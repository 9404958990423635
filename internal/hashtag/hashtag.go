// Package hashtag converts free-text topic names into hashtag search terms.
package hashtag

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the longest hashtag the image feed search accepts.
const DefaultMaxLength = 100

type Converter struct {
	maxLength int
}

func NewConverter(maxLength int) *Converter {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Converter{maxLength: maxLength}
}

// ToSearchHashtag strips diacritics and punctuation from name and joins the
// remaining words in lower case, without a leading '#'. It returns false
// when nothing usable is left.
func (c *Converter) ToSearchHashtag(name string) (string, bool) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	tag := []rune(b.String())
	if len(tag) > c.maxLength {
		tag = tag[:c.maxLength]
	}
	if len(tag) == 0 || !containsLetter(tag) {
		return "", false
	}

	return string(tag), true
}

func containsLetter(tag []rune) bool {
	for _, r := range tag {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
