// Package extractor turns stored uploads into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/rag-playground/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// MinTextLength is the shortest extracted text still considered usable.
const MinTextLength = 10

// PDFExtractor extracts text from PDF files. A single parse attempt is made.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the trimmed text of the PDF at path.
func (e *PDFExtractor) Extract(ctx context.Context, path, fileType string) (string, error) {
	if fileType != entity.MimePDF {
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedType, fileType)
	}

	text, err := readPlainText(path)
	if err != nil {
		ctxzap.Warn(ctx, "pdf parse failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("%w: %v", entity.ErrExtractionFailed, err)
	}

	text, err = usableText(text)
	if err != nil {
		return "", err
	}

	ctxzap.Debug(ctx, "pdf text extracted", zap.Int("length", utf8.RuneCountInString(text)))
	return text, nil
}

// usableText trims text and rejects it when fewer than MinTextLength
// characters remain.
func usableText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < MinTextLength {
		return "", fmt.Errorf("%w: extracted %d characters", entity.ErrNoContent, n)
	}
	return text, nil
}

// readPlainText converts parser panics on malformed input into errors.
func readPlainText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
