package document

import (
	"fmt"
	"strings"

	"github.com/futig/rag-playground/internal/entity"
)

func ingestWarning(truncated bool, stored int, batch *entity.EmbeddingBatch) string {
	var parts []string

	if truncated {
		parts = append(parts, fmt.Sprintf("Document is long; only the first %d chunks are searchable.", stored))
	}

	if batch.Degraded() {
		parts = append(parts, fmt.Sprintf(
			"Embedding service unavailable for %d of %d chunks; retrieval quality is reduced.",
			batch.FallbackCount, len(batch.Vectors),
		))
	}

	return strings.Join(parts, " ")
}
