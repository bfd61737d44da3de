package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PDF(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "doc.pdf", "Hello world, this is a test document with enough content.")

	text, err := NewPDFExtractor().Extract(context.Background(), path, entity.MimePDF)

	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestExtract_UnsupportedType(t *testing.T) {
	// The path does not exist: the type check must happen first.
	_, err := NewPDFExtractor().Extract(context.Background(), "/nonexistent.docx", entity.MimeDOCX)

	assert.ErrorIs(t, err, entity.ErrUnsupportedType)
}

func TestExtract_TooShort(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "short.pdf", "Hi")

	_, err := NewPDFExtractor().Extract(context.Background(), path, entity.MimePDF)

	assert.ErrorIs(t, err, entity.ErrNoContent)
}

func TestExtract_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	_, err := NewPDFExtractor().Extract(context.Background(), path, entity.MimePDF)

	assert.ErrorIs(t, err, entity.ErrExtractionFailed)
}

func TestUsableText_CountsCharacters(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"nine cyrillic letters", "  приветмир  ", true},
		{"ten cyrillic characters", "привет мир", false},
		{"nine ascii letters", "abcdefghi", true},
		{"ten ascii letters", "\nabcdefghij\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := usableText(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrNoContent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.text), text)
		})
	}
}
