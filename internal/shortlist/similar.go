package shortlist

import (
	"math"
	"sort"

	"github.com/spigell/resume-scorer/internal/nlp"
)

// Profile is a candidate's resume text.
type Profile struct {
	CandidateID int64  `json:"candidate_id"`
	Text        string `json:"text"`
}

// Similarity is how close another candidate's resume is to the target's.
type Similarity struct {
	CandidateID int64   `json:"candidate_id"`
	Score       float64 `json:"similarity_score"`
}

// Similar ranks others by TF-IDF cosine similarity to target and returns at most
// limit of them. Stop words are ignored and idf is smoothed, so a term shared by
// every resume still carries some weight. The target itself is never returned.
func Similar(target Profile, others []Profile, limit int) []Similarity {
	docs := make([][]string, 0, len(others)+1)
	docs = append(docs, contentTokens(target.Text))

	candidates := make([]Profile, 0, len(others))
	for _, p := range others {
		if p.CandidateID == target.CandidateID {
			continue
		}
		candidates = append(candidates, p)
		docs = append(docs, contentTokens(p.Text))
	}
	if len(candidates) == 0 {
		return []Similarity{}
	}

	idf := inverseDocumentFrequency(docs)
	targetVec := tfidf(docs[0], idf)

	results := make([]Similarity, 0, len(candidates))
	for i, p := range candidates {
		results = append(results, Similarity{
			CandidateID: p.CandidateID,
			Score:       sparseCosine(targetVec, tfidf(docs[i+1], idf)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

func contentTokens(text string) []string {
	tokens := nlp.Tokenize(text)
	out := tokens[:0]
	for _, t := range tokens {
		if len(t) < 2 || nlp.IsStopWord(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func inverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, count := range df {
		idf[t] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

func tfidf(doc []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(doc))
	for _, t := range doc {
		vec[t]++
	}
	for t, tf := range vec {
		vec[t] = tf * idf[t]
	}
	return vec
}

func sparseCosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for t, x := range a {
		normA += x * x
		if y, ok := b[t]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
