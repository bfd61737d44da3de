package chat

import (
	"strings"

	"github.com/futig/rag-playground/internal/entity"
)

const contextPreamble = "Use the following excerpts from the user's uploaded documents to answer the next question. " +
	"If they are not relevant, answer from general knowledge.\n\n"

func buildContextMessage(chunks []string) string {
	var b strings.Builder
	b.WriteString(contextPreamble)
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString(chunk)
	}
	return b.String()
}

func lastUserMessage(messages []entity.ChatMessage) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.RoleUser {
			return i
		}
	}
	return -1
}

func insertAt(messages []entity.ChatMessage, idx int, msg entity.ChatMessage) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(messages)+1)
	out = append(out, messages[:idx]...)
	out = append(out, msg)
	return append(out, messages[idx:]...)
}
