package handlers

import (
	"net/http"
	"strings"

	"talentbase-backend/internal/blob"
	apperrors "talentbase-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// BlobHandler serves uploaded images kept by the memory blob store
type BlobHandler struct {
	store blob.Store
}

// NewBlobHandler creates a new blob handler
func NewBlobHandler(store blob.Store) *BlobHandler {
	return &BlobHandler{store: store}
}

// Serve handles GET /blobs/*key
func (h *BlobHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.Status(http.StatusNotFound)
		return
	}

	info, body, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		}
		respondError(c, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{"Cache-Control": "public, max-age=86400"}
	if info.ETag != "" {
		headers["ETag"] = info.ETag
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, headers)
}
