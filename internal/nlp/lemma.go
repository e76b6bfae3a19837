package nlp

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

type golemLemmatizer struct {
	l *golem.Lemmatizer
}

// NewGolemLemmatizer loads the English golem dictionary.
func NewGolemLemmatizer() (Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return golemLemmatizer{l: l}, nil
}

func (g golemLemmatizer) Lemma(word string) string {
	return strings.ToLower(g.l.Lemma(strings.ToLower(word)))
}

// IdentityLemmatizer returns words lowercased and otherwise unchanged.
type IdentityLemmatizer struct{}

func (IdentityLemmatizer) Lemma(word string) string {
	return strings.ToLower(word)
}
