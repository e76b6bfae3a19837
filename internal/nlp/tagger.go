package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// POS is a coarse part-of-speech class.
type POS string

const (
	Noun       POS = "NOUN"
	ProperNoun POS = "PROPN"
	Verb       POS = "VERB"
	Adjective  POS = "ADJ"
	Other      POS = "X"
)

// Token is a single tagged word.
type Token struct {
	Text string
	POS  POS
}

// Tagger assigns coarse part-of-speech classes to the words of a text.
type Tagger interface {
	Name() string
	Tag(text string) ([]Token, error)
}

// ProseTagger tags text with the averaged perceptron model bundled in prose.
type ProseTagger struct{}

// NewProseTagger warms up the prose model so that a broken model surfaces on load
// rather than in the middle of a match.
func NewProseTagger() (Tagger, error) {
	t := ProseTagger{}
	if _, err := t.Tag("warm up the tagger"); err != nil {
		return nil, err
	}
	return t, nil
}

func (ProseTagger) Name() string { return "prose" }

func (ProseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose tagging: %w", err)
	}

	tokens := make([]Token, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		tokens = append(tokens, Token{Text: tok.Text, POS: coarsePOS(tok.Tag)})
	}
	return tokens, nil
}

// coarsePOS maps a Penn Treebank tag onto the classes the matchers care about.
func coarsePOS(tag string) POS {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return ProperNoun
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	default:
		return Other
	}
}

// HeuristicTagger treats every non-stop, non-numeric word as a noun. It is used when
// the statistical tagger cannot be loaded.
type HeuristicTagger struct{}

func (HeuristicTagger) Name() string { return "heuristic" }

func (HeuristicTagger) Tag(text string) ([]Token, error) {
	words := Tokenize(text)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		pos := Noun
		if IsStopWord(w) || !hasLetter(w) {
			pos = Other
		}
		tokens = append(tokens, Token{Text: w, POS: pos})
	}
	return tokens, nil
}
