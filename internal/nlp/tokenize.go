package nlp

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into word tokens. Characters that are part
// of common technology names (c++, c#, node.js) are kept inside a token; trailing
// dots are dropped so sentence ends do not stick to words.
func Tokenize(text string) []string {
	tokens := make([]string, 0)
	var word strings.Builder

	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		w = strings.TrimLeft(w, ".+#")
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// hasLetter reports whether s contains at least one letter.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
