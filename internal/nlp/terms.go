package nlp

import (
	"errors"
	"strings"

	"github.com/spigell/resume-scorer/internal/apperr"
)

// Extractor turns free text into an ordered set of lemmatized terms restricted to
// a set of part-of-speech classes.
type Extractor struct {
	models *Models
	keep   map[POS]bool
	strict bool
}

// ExtractorOption customises an Extractor.
type ExtractorOption func(*Extractor)

// Strict makes the extractor report apperr.ErrModelUnavailable when the tagger or
// lemmatizer cannot be loaded instead of degrading to the heuristic tagger.
func Strict() ExtractorOption {
	return func(e *Extractor) { e.strict = true }
}

// NewExtractor returns an extractor that keeps only tokens tagged with one of keep.
func NewExtractor(models *Models, keep []POS, opts ...ExtractorOption) *Extractor {
	e := &Extractor{models: models, keep: make(map[POS]bool, len(keep))}
	for _, p := range keep {
		e.keep[p] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Terms returns the distinct lemmas of text in order of first appearance.
func (e *Extractor) Terms(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	tagger, lemmatizer, err := e.resolve()
	if err != nil {
		return nil, err
	}

	tokens, err := tagger.Tag(text)
	if err != nil {
		if e.strict {
			return nil, apperr.NewModelUnavailableError(tagger.Name(), err)
		}
		tokens, _ = HeuristicTagger{}.Tag(text)
	}

	seen := make(map[string]bool)
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !e.keep[tok.POS] {
			continue
		}
		lemma := strings.Trim(strings.ToLower(lemmatizer.Lemma(tok.Text)), ".,;:!?\"'()[]{}")
		if len(lemma) < 2 || !hasLetter(lemma) || IsStopWord(lemma) || seen[lemma] {
			continue
		}
		seen[lemma] = true
		terms = append(terms, lemma)
	}

	return terms, nil
}

// TermSet returns the terms of text as a set.
func (e *Extractor) TermSet(text string) (map[string]bool, error) {
	terms, err := e.Terms(text)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set, nil
}

func (e *Extractor) resolve() (Tagger, Lemmatizer, error) {
	var (
		tagger     Tagger     = HeuristicTagger{}
		lemmatizer Lemmatizer = IdentityLemmatizer{}
		errs       []error
	)

	if e.models != nil && e.models.Tagger != nil {
		t, err := e.models.Tagger.Get()
		if err != nil {
			errs = append(errs, apperr.NewModelUnavailableError(e.models.Tagger.Name(), err))
		} else {
			tagger = t
		}
	}

	if e.models != nil && e.models.Lemmatizer != nil {
		l, err := e.models.Lemmatizer.Get()
		if err != nil {
			errs = append(errs, apperr.NewModelUnavailableError(e.models.Lemmatizer.Name(), err))
		} else {
			lemmatizer = l
		}
	}

	if e.strict && len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	return tagger, lemmatizer, nil
}
