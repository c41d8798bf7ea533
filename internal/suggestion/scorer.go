package suggestion

import (
	"math"
	"strings"
)

// Scores computes the cosine similarity of each corpus text against the
// query, over term-count vectors drawn from a vocabulary shared by the whole
// call. The vocabulary is rebuilt from scratch every time: each request is a
// one-shot comparison against the current corpus snapshot, never an
// incremental index.
func Scores(corpus []string, query string) []float64 {
	if len(corpus) == 0 {
		return nil
	}

	vocabulary := buildVocabulary(corpus, query)
	queryVec := vectorize(query, vocabulary)

	scores := make([]float64, len(corpus))
	for i, text := range corpus {
		scores[i] = cosineSimilarity(vectorize(text, vocabulary), queryVec)
	}
	return scores
}

// buildVocabulary assigns an index to every distinct token in the corpus and
// the query.
func buildVocabulary(corpus []string, query string) map[string]int {
	vocabulary := make(map[string]int)
	add := func(text string) {
		for _, tok := range strings.Fields(text) {
			if _, ok := vocabulary[tok]; !ok {
				vocabulary[tok] = len(vocabulary)
			}
		}
	}
	for _, text := range corpus {
		add(text)
	}
	add(query)
	return vocabulary
}

// vectorize represents text as token counts over the shared vocabulary.
func vectorize(text string, vocabulary map[string]int) []float64 {
	vec := make([]float64, len(vocabulary))
	for _, tok := range strings.Fields(text) {
		if idx, ok := vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	return vec
}

// cosineSimilarity returns the cosine of the angle between two count
// vectors. A zero vector has similarity 0 to anything, including itself.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
