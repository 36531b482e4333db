package blob

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	apperrors "talentbase-backend/internal/errors"
)

// DefaultMemoryBaseURL is where the HTTP layer serves in-memory blobs.
const DefaultMemoryBaseURL = "/blobs"

type blobEntry struct {
	info Info
	data []byte
}

// MemoryStore implements Store backed by process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objs    map[string]blobEntry
	baseURL string
}

// NewMemory returns an in-memory blob store whose public URLs start at baseURL.
func NewMemory(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = DefaultMemoryBaseURL
	}
	return &MemoryStore{objs: make(map[string]blobEntry), baseURL: baseURL}
}

// Driver returns the blob driver identifier.
func (s *MemoryStore) Driver() Driver { return DriverMemory }

// Put stores a new blob; errors if key exists.
func (s *MemoryStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return Info{}, apperrors.ErrBlobExists
	}
	info := Info{
		Key:          key,
		Size:         int64(len(b)),
		ContentType:  opts.ContentType,
		Metadata:     cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
		URL:          s.PublicURL(key),
	}
	s.objs[key] = blobEntry{info: info, data: b}
	return info, nil
}

// Get returns blob metadata and a read closer to a copy of its content.
func (s *MemoryStore) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Info{}, nil, apperrors.ErrBlobNotFound
	}
	dataCopy := make([]byte, len(obj.data))
	copy(dataCopy, obj.data)
	infoCopy := obj.info
	infoCopy.Metadata = cloneMetadata(infoCopy.Metadata)
	return infoCopy, io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// Delete removes the blob returning true if it existed.
func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objs[key]; !ok {
		return false, nil
	}
	delete(s.objs, key)
	return true, nil
}

// PublicURL returns the URL the blob is served at.
func (s *MemoryStore) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}
