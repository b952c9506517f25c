package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vinhtqfx07044/laptop/internal/config"
	"go.uber.org/zap"
)

// Object identifies a stored image by its owning request and filename
type Object struct {
	RequestID uuid.UUID
	Filename  string
}

// Storage defines the interface for request image storage. Images live
// in a per-request directory and are addressed by a generated filename.
type Storage interface {
	// Save stores an image for a request and returns the generated
	// filename (a UUID plus the original extension) and its size
	Save(ctx context.Context, requestID uuid.UUID, originalFilename string, contentType string, data io.Reader) (string, int64, error)
	// Open returns the image content for download
	Open(ctx context.Context, requestID uuid.UUID, filename string) (io.ReadCloser, error)
	// DeleteIfExists removes an image; deleting a missing image is not
	// an error
	DeleteIfExists(ctx context.Context, requestID uuid.UUID, filename string) error
	// List enumerates every stored image across all requests
	List(ctx context.Context) ([]Object, error)
}

// NewStorage creates a new storage instance based on configuration.
// For local mode, files are stored on the local filesystem.
// For cloud/azure mode, files are stored in Azure Blob Storage.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base path if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save stores an image under the request's directory
func (s *LocalStorage) Save(ctx context.Context, requestID uuid.UUID, originalFilename string, contentType string, data io.Reader) (string, int64, error) {
	filename := uuid.New().String() + filepath.Ext(originalFilename)
	dir := filepath.Join(s.basePath, requestID.String())

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create request directory: %w", err)
	}

	fullPath := filepath.Join(dir, filename)
	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filename, size, nil
}

// Open returns the image content for download
func (s *LocalStorage) Open(ctx context.Context, requestID uuid.UUID, filename string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, requestID.String(), filepath.Base(filename))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// DeleteIfExists removes an image, ignoring files already gone
func (s *LocalStorage) DeleteIfExists(ctx context.Context, requestID uuid.UUID, filename string) error {
	fullPath := filepath.Join(s.basePath, requestID.String(), filepath.Base(filename))

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List enumerates every stored image across all request directories
func (s *LocalStorage) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var objects []Object
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		requestID, err := uuid.Parse(entry.Name())
		if err != nil {
			// Not a request directory
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read request directory: %w", err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			objects = append(objects, Object{RequestID: requestID, Filename: f.Name()})
		}
	}

	return objects, nil
}
