package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/storage"
)

// RecordingNotifier captures notification calls instead of sending mail.
type RecordingNotifier struct {
	mu      sync.Mutex
	Created []uuid.UUID
	Updated []UpdatedNotification
	Recover []RecoveryNotification
}

// UpdatedNotification records one NotifyUpdated call.
type UpdatedNotification struct {
	RequestID uuid.UUID
	Changes   string
}

// RecoveryNotification records one NotifyRecovery call.
type RecoveryNotification struct {
	Email    string
	Requests int
}

func (n *RecordingNotifier) NotifyCreated(request *domain.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Created = append(n.Created, request.ID)
}

func (n *RecordingNotifier) NotifyUpdated(request *domain.Request, changes string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Updated = append(n.Updated, UpdatedNotification{RequestID: request.ID, Changes: changes})
}

func (n *RecordingNotifier) NotifyRecovery(email string, requests []domain.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Recover = append(n.Recover, RecoveryNotification{Email: email, Requests: len(requests)})
}

// MemoryStorage is an in-memory storage.Storage implementation.
type MemoryStorage struct {
	mu    sync.Mutex
	files map[storage.Object][]byte
	// SaveErr, when set, fails every Save call
	SaveErr error
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[storage.Object][]byte)}
}

func (m *MemoryStorage) Save(ctx context.Context, requestID uuid.UUID, originalFilename string, contentType string, data io.Reader) (string, int64, error) {
	if m.SaveErr != nil {
		return "", 0, m.SaveErr
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return "", 0, err
	}
	filename := uuid.New().String() + filepath.Ext(originalFilename)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[storage.Object{RequestID: requestID, Filename: filename}] = content
	return filename, int64(len(content)), nil
}

func (m *MemoryStorage) Open(ctx context.Context, requestID uuid.UUID, filename string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[storage.Object{RequestID: requestID, Filename: filename}]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", requestID, filename)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (m *MemoryStorage) DeleteIfExists(ctx context.Context, requestID uuid.UUID, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, storage.Object{RequestID: requestID, Filename: filename})
	return nil
}

func (m *MemoryStorage) List(ctx context.Context) ([]storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]storage.Object, 0, len(m.files))
	for obj := range m.files {
		objects = append(objects, obj)
	}
	return objects, nil
}

// Len returns the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Put seeds an object directly, bypassing Save's filename generation.
func (m *MemoryStorage) Put(requestID uuid.UUID, filename string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[storage.Object{RequestID: requestID, Filename: filename}] = content
}
