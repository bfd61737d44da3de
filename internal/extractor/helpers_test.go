package extractor

import (
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

// writePDF renders text into a one-page PDF under dir.
func writePDF(t *testing.T, dir, name, text string) string {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.Cell(0, 10, text)

	path := filepath.Join(dir, name)
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}
