package service

import (
	"bytes"
	"context"

	"talentbase-backend/internal/blob"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"
)

// StorageService uploads images to blob storage and returns their public URLs
type StorageService struct {
	store blob.Store
}

// NewStorageService creates a new storage service
func NewStorageService(store blob.Store) *StorageService {
	return &StorageService{store: store}
}

// Upload stores data at path and returns the public URL. Any failure is
// reported as an apperrors.UploadError.
func (s *StorageService) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	info, err := s.store.Put(ctx, path, bytes.NewReader(data), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"uploaded-by": logger.UserFromContext(ctx)},
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("path", path).Warn("upload failed")
		return "", apperrors.NewUploadError(path, err)
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"path": path,
		"size": len(data),
	}).Info("upload stored")
	if info.URL != "" {
		return info.URL, nil
	}
	return s.store.PublicURL(path), nil
}

// Remove deletes the blob stored at path. A missing blob is not an error.
func (s *StorageService) Remove(ctx context.Context, path string) error {
	existed, err := s.store.Delete(ctx, path)
	if err != nil {
		return apperrors.NewUploadError(path, err)
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"path":    path,
		"existed": existed,
	}).Info("upload removed")
	return nil
}
