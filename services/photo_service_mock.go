package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"sync"
)

// MockPhotoStore is an in-memory PhotoStore implementation for testing.
type MockPhotoStore struct {
	uploaded map[string]string // photo URL -> original filename
	failNext bool
	mu       sync.Mutex
}

// NewMockPhotoStore creates a new mock photo store.
func NewMockPhotoStore() *MockPhotoStore {
	return &MockPhotoStore{uploaded: make(map[string]string)}
}

// FailNextUpload makes the next Upload call return an error.
func (m *MockPhotoStore) FailNextUpload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// Upload simulates storing a photo and returns a fake public URL.
func (m *MockPhotoStore) Upload(fileHeader *multipart.FileHeader, orderID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return "", errors.New("mock upload failure")
	}

	photoURL := fmt.Sprintf("https://mock-bucket.example.com/%s-%s", orderID, fileHeader.Filename)
	m.uploaded[photoURL] = fileHeader.Filename
	return photoURL, nil
}

// Delete simulates removing a stored photo.
func (m *MockPhotoStore) Delete(photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.uploaded[photoURL]; !ok {
		return fmt.Errorf("photo not found: %s", photoURL)
	}
	delete(m.uploaded, photoURL)
	return nil
}

// Count returns how many photos are currently stored.
func (m *MockPhotoStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploaded)
}

// Uploaded reports whether the given URL was uploaded and not deleted.
func (m *MockPhotoStore) Uploaded(photoURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.uploaded[photoURL]
	return ok
}
