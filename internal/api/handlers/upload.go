package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/roster"

	"github.com/gin-gonic/gin"
)

// readUpload reads the optional file field of a multipart form.
// A missing or empty file returns nil.
func readUpload(c *gin.Context, field string, maxBytes int64) (*roster.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewValidationError(field, "could not read uploaded file")
	}
	if header.Size == 0 {
		return nil, nil
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, apperrors.NewValidationError(field, fmt.Sprintf("file is larger than %d MB", maxBytes>>20))
	}
	return readFileHeader(header, field)
}

func readFileHeader(header *multipart.FileHeader, field string) (*roster.Upload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError(field, "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "could not read uploaded file")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &roster.Upload{FileName: header.Filename, ContentType: contentType, Data: data}, nil
}
