package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"wanderstay/internal/infra/storage/s3"
)

// StoredDocument is an uploaded object held in memory.
type StoredDocument struct {
	ContentType string
	Data        []byte
}

// DocumentStore is the S3 stand-in used when no object storage is configured.
type DocumentStore struct {
	mu      sync.RWMutex
	baseURL string
	items   map[string]StoredDocument
}

func NewDocumentStore(baseURL string) *DocumentStore {
	if baseURL == "" {
		baseURL = "memory://documents"
	}
	return &DocumentStore{baseURL: strings.TrimRight(baseURL, "/"), items: make(map[string]StoredDocument)}
}

func (s *DocumentStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("memory: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("memory: object key is required")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = StoredDocument{ContentType: contentType, Data: buf.Bytes()}
	return s.baseURL + "/" + key, nil
}

func (s *DocumentStore) Get(key string) (StoredDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.items[key]
	return doc, ok
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ s3.Uploader = (*DocumentStore)(nil)
