package validator

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
)

var AllowedMIMETypes = map[string]bool{
	entity.MimePDF:  true,
	entity.MimeDOC:  true,
	entity.MimeDOCX: true,
}

var extensionByMIME = map[string]string{
	entity.MimePDF:  ".pdf",
	entity.MimeDOC:  ".doc",
	entity.MimeDOCX: ".docx",
}

// Validator validates inbound requests at the HTTP boundary
type Validator struct {
	cfg       config.FileUploadConfig
	uploadDir string
}

func NewValidator(cfg config.FileUploadConfig) (*Validator, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	return &Validator{cfg: cfg, uploadDir: dir}, nil
}

// ValidateUpload checks size and MIME type of an uploaded file and returns
// the resolved MIME type.
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	mimeType := DetectMIME(fh)
	if !AllowedMIMETypes[mimeType] {
		return "", fmt.Errorf("%w: %s (allowed: pdf, doc, docx)", entity.ErrInvalidFileType, mimeType)
	}

	return mimeType, nil
}

// ValidateProcessDocument checks required fields and that the file lives in
// the upload directory under the name its session owns.
func (v *Validator) ValidateProcessDocument(req *entity.ProcessDocumentRequest) error {
	switch {
	case req.SessionID == "":
		return fmt.Errorf("%w: sessionId", entity.ErrMissingField)
	case req.FileID == "":
		return fmt.Errorf("%w: fileId", entity.ErrMissingField)
	case req.Filename == "":
		return fmt.Errorf("%w: filename", entity.ErrMissingField)
	case req.Filepath == "":
		return fmt.Errorf("%w: filepath", entity.ErrMissingField)
	case req.FileType == "":
		return fmt.Errorf("%w: fileType", entity.ErrMissingField)
	}

	path, err := filepath.Abs(req.Filepath)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidFilePath, err)
	}
	if filepath.Dir(path) != v.uploadDir {
		return fmt.Errorf("%w: %s", entity.ErrInvalidFilePath, req.Filepath)
	}
	if !strings.HasPrefix(filepath.Base(path), StoredFilePrefix(req.SessionID)+req.FileID) {
		return fmt.Errorf("%w: file is not owned by session", entity.ErrInvalidFilePath)
	}

	return nil
}

// DetectMIME prefers the part's declared Content-Type and falls back to the
// filename extension for generic declarations.
func DetectMIME(fh *multipart.FileHeader) string {
	declared := fh.Header.Get("Content-Type")
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".pdf":
		return entity.MimePDF
	case ".doc":
		return entity.MimeDOC
	case ".docx":
		return entity.MimeDOCX
	}
	return declared
}

// ExtensionFor returns the stored file extension for an allowed MIME type.
func ExtensionFor(mimeType string) string {
	if ext, ok := extensionByMIME[mimeType]; ok {
		return ext
	}
	return ".bin"
}

// StoredFilePrefix is the ownership marker of every file a session uploads.
func StoredFilePrefix(sessionID string) string {
	return sessionID + "__"
}

// StoredFileName builds "{sessionId}__{fileId}.{ext}".
func StoredFileName(sessionID, fileID, mimeType string) string {
	return StoredFilePrefix(sessionID) + fileID + ExtensionFor(mimeType)
}

// SanitizeFilename sanitizes a filename for display and logging
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
