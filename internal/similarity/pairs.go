package similarity

import (
	"math"
	"sort"

	"github.com/nao1215/linkweave/internal/model"
)

// FindSimilarPages compares every pair of embeddings and returns the pairs
// whose similarity is at least minSimilarity, highest first. Source is
// always the earlier embedding of the pair.
//
// The threshold applies to the raw score. Reported scores are clamped to
// [0,1] and rounded to two decimals; pairs with equal rounded scores keep
// their input order.
func FindSimilarPages(embeddings []*model.PageEmbedding, minSimilarity float64) []model.SimilarityPair {
	pairs := make([]model.SimilarityPair, 0)

	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			score := Cosine(embeddings[i].Embedding, embeddings[j].Embedding)
			if score < minSimilarity {
				continue
			}
			pairs = append(pairs, model.SimilarityPair{
				Source: embeddings[i].URL,
				Target: embeddings[j].URL,
				Score:  roundScore(score),
			})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Score > pairs[b].Score
	})
	return pairs
}

// roundScore clamps s to [0,1] and rounds it to two decimals.
func roundScore(s float64) float64 {
	s = math.Max(0, math.Min(1, s))
	return math.Round(s*100) / 100
}
