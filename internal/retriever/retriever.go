package retriever

import (
	"math"
	"sort"

	"github.com/futig/rag-playground/internal/entity"
)

const (
	DefaultTopK = 3
	MinTopK     = 1
	MaxTopK     = 10
)

// CosineSimilarity returns the cosine of the angle between a and b. Vectors
// of different length, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return max(-1, min(1, sim))
}

// ClampTopK bounds k to [MinTopK, MaxTopK].
func ClampTopK(k int) int {
	return max(MinTopK, min(MaxTopK, k))
}

// Rank scores every chunk of docs against query and returns at most topK
// chunks with a positive score, best first. Equal scores keep insertion
// order: documents by creation time then file id, chunks by position.
func Rank(query []float32, docs map[string]*entity.Document, topK int) []entity.ScoredChunk {
	topK = ClampTopK(topK)

	var candidates []entity.ScoredChunk
	for _, fileID := range orderedFileIDs(docs) {
		doc := docs[fileID]
		for i := range doc.Pairs() {
			score := CosineSimilarity(query, doc.Embeddings[i])
			if score <= 0 {
				continue
			}
			candidates = append(candidates, entity.ScoredChunk{
				FileID: fileID,
				Text:   doc.Chunks[i],
				Score:  score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// Retrieve returns the texts of the topK best matching chunks. An empty
// result means no context, not an error.
func Retrieve(query []float32, docs map[string]*entity.Document, topK int) []string {
	ranked := Rank(query, docs, topK)

	texts := make([]string, len(ranked))
	for i, c := range ranked {
		texts[i] = c.Text
	}
	return texts
}

func orderedFileIDs(docs map[string]*entity.Document) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := docs[ids[i]], docs[ids[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return ids[i] < ids[j]
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return ids
}
