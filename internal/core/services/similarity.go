package services

import (
	"math"
	"sort"

	"github.com/careerline-labs/pathmatch/internal/core/domain"
)

// normEpsilon stabilises the cosine denominator so a degenerate zero
// vector scores ~0 instead of producing NaN.
const normEpsilon = 1e-8

// Cosine computes the cosine similarity between two vectors.
// Result is in [-1, 1]; mismatched lengths compare the overlapping prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	return dot / ((math.Sqrt(normA) + normEpsilon) * (math.Sqrt(normB) + normEpsilon))
}

// CosineSimilarityMatrix computes pairwise cosine similarity between the
// rows of a and the rows of b. The result has len(a) rows and len(b)
// columns, each entry in [-1, 1].
func CosineSimilarityMatrix(a, b [][]float32) [][]float64 {
	// Precompute row norms so each is taken once, not len(a)*len(b) times.
	normsA := rowNorms(a)
	normsB := rowNorms(b)

	out := make([][]float64, len(a))
	for i := range a {
		row := make([]float64, len(b))
		for j := range b {
			row[j] = dot(a[i], b[j]) / (normsA[i] * normsB[j])
		}
		out[i] = row
	}
	return out
}

// TopK returns up to k candidates with the highest scores, ordered by
// descending score. Equal scores are broken by ascending candidate
// index so results are stable across runs.
func TopK(scores []float64, k int) []domain.MatchCandidate {
	if k <= 0 {
		return nil
	}

	candidates := make([]domain.MatchCandidate, len(scores))
	for i, s := range scores {
		candidates[i] = domain.MatchCandidate{Index: i, Score: s}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Index < candidates[j].Index
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}

func rowNorms(m [][]float32) []float64 {
	norms := make([]float64, len(m))
	for i, row := range m {
		var sum float64
		for _, v := range row {
			sum += float64(v) * float64(v)
		}
		norms[i] = math.Sqrt(sum) + normEpsilon
	}
	return norms
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
