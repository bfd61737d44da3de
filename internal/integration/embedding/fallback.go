package embedding

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
)

// FallbackVector returns a pseudo-random vector in [-1, 1) seeded by the
// text, so identical texts map to identical vectors. Similarity between
// fallback vectors of different texts carries no meaning.
func FallbackVector(text string, dimension int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	vec := make([]float32, dimension)
	for i := range vec {
		vec[i] = rng.Float32()*2 - 1
	}
	return vec
}

// PrepareInputs drops texts shorter than minLength after trimming, removes
// exact duplicates keeping the first occurrence, and caps the result at
// maxItems. Texts are kept untrimmed otherwise.
func PrepareInputs(texts []string, minLength, maxItems int) []string {
	seen := make(map[string]struct{}, len(texts))
	out := make([]string, 0, min(len(texts), maxItems))

	for _, text := range texts {
		if len(out) >= maxItems {
			break
		}
		if len([]rune(strings.TrimSpace(text))) < minLength {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}

	return out
}
