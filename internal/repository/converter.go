package repository

import (
	"sort"

	"github.com/futig/rag-playground/internal/entity"
)

func toDocumentSummary(fileID string, doc *entity.Document) entity.DocumentSummary {
	return entity.DocumentSummary{
		FileID:    fileID,
		Filename:  doc.Filename,
		Chunks:    doc.Pairs(),
		CreatedAt: doc.CreatedAt,
	}
}

// Summaries lists the session's documents oldest first.
func (s *DocumentMemory) Summaries(sessionID string) []entity.DocumentSummary {
	docs := s.Get(sessionID)

	out := make([]entity.DocumentSummary, 0, len(docs))
	for id, doc := range docs {
		out = append(out, toDocumentSummary(id, doc))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].FileID < out[j].FileID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}
