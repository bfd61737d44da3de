package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Validation errors
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEmptyMessages     = errors.New("messages must not be empty")
	ErrMissingCredential = errors.New("inference service credential is not configured")
	ErrMissingSession    = errors.New("no sessionId found in cookies")

	// File errors
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("file type not allowed")
	ErrInvalidFilePath = errors.New("file path outside upload directory")

	// Ingestion errors
	ErrUnsupportedType  = errors.New("unsupported document type")
	ErrExtractionFailed = errors.New("text extraction failed")
	ErrNoContent        = errors.New("document contains no usable text")
	ErrNoChunks         = errors.New("document produced no chunks")

	// Storage errors
	ErrStorage = errors.New("document store failure")
)

// UpstreamError carries a failed response of the inference provider so that
// handlers can propagate its status code and body unchanged.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsIngestionRejection reports whether err is one of the distinct conditions
// under which a document is refused for RAG.
func IsIngestionRejection(err error) bool {
	return RejectionCode(err) != ""
}

// rejections pairs each ingestion refusal with its wire code and the warning
// shown on upload. The code travels in the /process-document error body.
var rejections = []struct {
	err     error
	code    string
	warning string
}{
	{ErrUnsupportedType, "unsupported_type", "File uploaded, but only PDF documents can be used for RAG."},
	{ErrExtractionFailed, "extraction_failed", "File uploaded, but its text could not be extracted for RAG."},
	{ErrNoContent, "no_content", "File uploaded, but it contains too little text for RAG."},
	{ErrNoChunks, "no_chunks", "File uploaded, but no searchable text chunks were produced."},
}

// ProcessingFailedWarning is shown when a document could not be processed
// for another reason.
const ProcessingFailedWarning = "File uploaded, but document processing failed."

// RejectionCode returns the wire code of an ingestion refusal, or "".
func RejectionCode(err error) string {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ""
}

// RejectionFromCode maps a wire code back to its sentinel; unknown codes
// give nil.
func RejectionFromCode(code string) error {
	for _, r := range rejections {
		if r.code == code {
			return r.err
		}
	}
	return nil
}

// RejectionWarning turns an ingestion refusal into a message for the user.
func RejectionWarning(err error) string {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.warning
		}
	}
	return ProcessingFailedWarning
}
