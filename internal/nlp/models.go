package nlp

import (
	"sync"

	"github.com/spigell/resume-scorer/internal/lazy"
)

// Models bundles the language resources shared by every matcher in the process.
type Models struct {
	Tagger     *lazy.Value[Tagger]
	Lemmatizer *lazy.Value[Lemmatizer]
}

var (
	sharedOnce sync.Once
	shared     *Models
)

// Shared returns the process-wide models. Nothing is loaded until a matcher first
// asks for a tagger or lemmatizer.
func Shared() *Models {
	sharedOnce.Do(func() {
		shared = &Models{
			Tagger:     lazy.New("prose-tagger", NewProseTagger),
			Lemmatizer: lazy.New("golem-en", NewGolemLemmatizer),
		}
	})
	return shared
}
