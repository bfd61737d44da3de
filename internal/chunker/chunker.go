// Package chunker splits extracted text into overlapping fixed-size windows.
package chunker

import (
	"fmt"
	"strings"

	"github.com/futig/rag-playground/internal/entity"
)

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
	DefaultMaxChunks = 50
)

// Chunker is a pure function of its parameters and the input text.
// Sizes are measured in characters (runes).
type Chunker struct {
	size      int
	overlap   int
	maxChunks int
}

// New validates the window parameters. An overlap that is not smaller than
// size would never advance the window and is rejected.
func New(size, overlap, maxChunks int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", entity.ErrInvalidParameter, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", entity.ErrInvalidParameter, size, overlap)
	}
	if maxChunks < 1 {
		return nil, fmt.Errorf("%w: max chunks must be positive, got %d", entity.ErrInvalidParameter, maxChunks)
	}

	return &Chunker{size: size, overlap: overlap, maxChunks: maxChunks}, nil
}

// Split slides a window of size characters over the trimmed text, advancing
// by size-overlap. Windows are trimmed and empty ones dropped. The window
// that reaches the end of the text is the last one. The flag is set when a
// non-empty window was left out because maxChunks was reached.
func (c *Chunker) Split(text string) ([]string, bool) {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n == 0 {
		return nil, false
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, min(c.maxChunks, n/step+1))

	for start := 0; start < n; start += step {
		end := min(start+c.size, n)

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			if len(chunks) == c.maxChunks {
				return chunks, true
			}
			chunks = append(chunks, piece)
		}

		if end == n {
			break
		}
	}

	return chunks, false
}
