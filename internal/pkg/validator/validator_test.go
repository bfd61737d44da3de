package validator

import (
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/futig/rag-playground/internal/config"
	"github.com/futig/rag-playground/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (*Validator, string) {
	t.Helper()
	dir := t.TempDir()
	v, err := NewValidator(config.FileUploadConfig{Dir: dir, MaxFileSize: 1024, MaxFormSize: 2048})
	require.NoError(t, err)
	return v, dir
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateUpload(t *testing.T) {
	v, _ := newTestValidator(t)

	tests := []struct {
		name     string
		fh       *multipart.FileHeader
		wantMIME string
		wantErr  error
	}{
		{"pdf", fileHeader("a.pdf", entity.MimePDF, 10), entity.MimePDF, nil},
		{"docx", fileHeader("a.docx", entity.MimeDOCX, 10), entity.MimeDOCX, nil},
		{"octet stream falls back to extension", fileHeader("a.pdf", "application/octet-stream", 10), entity.MimePDF, nil},
		{"too large", fileHeader("a.pdf", entity.MimePDF, 4096), "", entity.ErrFileTooLarge},
		{"disallowed type", fileHeader("a.png", "image/png", 10), "", entity.ErrInvalidFileType},
		{"missing", nil, "", entity.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateUpload(tt.fh)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, got)
		})
	}
}

func TestValidateProcessDocument(t *testing.T) {
	v, dir := newTestValidator(t)

	valid := entity.ProcessDocumentRequest{
		SessionID: "s1",
		FileID:    "f1",
		Filename:  "doc.pdf",
		Filepath:  filepath.Join(dir, StoredFileName("s1", "f1", entity.MimePDF)),
		FileType:  entity.MimePDF,
	}
	require.NoError(t, v.ValidateProcessDocument(&valid))

	missing := valid
	missing.FileType = ""
	assert.ErrorIs(t, v.ValidateProcessDocument(&missing), entity.ErrMissingField)

	outside := valid
	outside.Filepath = filepath.Join(dir, "..", StoredFileName("s1", "f1", entity.MimePDF))
	assert.ErrorIs(t, v.ValidateProcessDocument(&outside), entity.ErrInvalidFilePath)

	foreign := valid
	foreign.Filepath = filepath.Join(dir, StoredFileName("s2", "f1", entity.MimePDF))
	assert.ErrorIs(t, v.ValidateProcessDocument(&foreign), entity.ErrInvalidFilePath)
}

func TestValidateChat(t *testing.T) {
	v, _ := newTestValidator(t)
	temp := 3.0

	assert.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{}), entity.ErrEmptyMessages)
	assert.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{
		Messages: []entity.ChatMessage{{Role: "tool", Content: "x"}},
	}), entity.ErrInvalidParameter)
	assert.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{
		Messages:    []entity.ChatMessage{{Role: entity.RoleUser, Content: "x"}},
		Temperature: &temp,
	}), entity.ErrInvalidParameter)
	assert.NoError(t, v.ValidateChat(&entity.ChatRequest{
		Messages: []entity.ChatMessage{{Role: entity.RoleUser, Content: "hello"}},
	}))
}

func TestStoredFileName(t *testing.T) {
	assert.Equal(t, "s1__f1.pdf", StoredFileName("s1", "f1", entity.MimePDF))
	assert.Equal(t, "s1__f1.docx", StoredFileName("s1", "f1", entity.MimeDOCX))
	assert.Equal(t, "my_file.pdf", SanitizeFilename("../dir/my (file).pdf"))
}
