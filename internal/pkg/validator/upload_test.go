package validator

import (
	"mime/multipart"
	"testing"

	"github.com/medchat/docchat-backend/internal/config"
	"github.com/medchat/docchat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxFileCount: 3,
		MaxFileSize:  1000,
		MaxTotalSize: 2000,
	})
}

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateUpload(t *testing.T) {
	v := testValidator()

	err := v.ValidateUpload([]*multipart.FileHeader{
		header("report.pdf", 500),
		header("notes.txt", 300),
	})
	require.NoError(t, err)
}

func TestValidateUploadNoFiles(t *testing.T) {
	err := testValidator().ValidateUpload(nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestValidateUploadTooManyFiles(t *testing.T) {
	files := []*multipart.FileHeader{
		header("a.txt", 1), header("b.txt", 1), header("c.txt", 1), header("d.txt", 1),
	}
	err := testValidator().ValidateUpload(files)
	assert.ErrorIs(t, err, entity.ErrTooManyFiles)
}

func TestValidateUploadRejectsExtension(t *testing.T) {
	err := testValidator().ValidateUpload([]*multipart.FileHeader{header("malware.exe", 10)})
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)
}

func TestValidateUploadExtensionCaseInsensitive(t *testing.T) {
	err := testValidator().ValidateUpload([]*multipart.FileHeader{header("Scan.PDF", 10)})
	assert.NoError(t, err)
}

func TestValidateUploadFileTooLarge(t *testing.T) {
	err := testValidator().ValidateUpload([]*multipart.FileHeader{header("big.pdf", 1001)})
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestValidateUploadTotalSizeTooLarge(t *testing.T) {
	files := []*multipart.FileHeader{
		header("a.pdf", 900),
		header("b.pdf", 900),
		header("c.pdf", 900),
	}
	err := testValidator().ValidateUpload(files)
	assert.ErrorIs(t, err, entity.ErrTotalSizeTooLarge)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "lab_results_2024.pdf", SanitizeFilename("lab results (2024).pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
}
