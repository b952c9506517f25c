package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage interface for Azure Blob Storage.
// Blob names are "<requestID>/<filename>" so a request's images share a
// virtual directory.
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage creates a new Azure Blob Storage instance
func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	// Ensure container exists
	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

func blobName(requestID uuid.UUID, filename string) string {
	return requestID.String() + "/" + filename
}

// Save uploads an image blob under the request's virtual directory
func (s *AzureBlobStorage) Save(ctx context.Context, requestID uuid.UUID, originalFilename string, contentType string, data io.Reader) (string, int64, error) {
	filename := uuid.New().String() + filepath.Ext(originalFilename)

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	// Wrap data in counting reader to track size
	reader := &countingReader{r: data}

	_, err := s.client.UploadStream(ctx, s.containerName, blobName(requestID, filename), reader, uploadOptions)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("Image uploaded to Azure Blob Storage",
		zap.String("requestId", requestID.String()),
		zap.String("filename", filename),
		zap.String("container", s.containerName),
		zap.String("contentType", contentType),
		zap.Int64("size", reader.count),
	)

	return filename, reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Open downloads an image blob
func (s *AzureBlobStorage) Open(ctx context.Context, requestID uuid.UUID, filename string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, blobName(requestID, filename), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// DeleteIfExists removes an image blob, ignoring blobs already gone
func (s *AzureBlobStorage) DeleteIfExists(ctx context.Context, requestID uuid.UUID, filename string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, blobName(requestID, filename), nil)
	if err != nil {
		// Check if blob doesn't exist (already deleted)
		if strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("requestId", requestID.String()),
				zap.String("filename", filename),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("Image deleted from Azure Blob Storage",
		zap.String("requestId", requestID.String()),
		zap.String("filename", filename),
	)

	return nil
}

// List enumerates every image blob in the container
func (s *AzureBlobStorage) List(ctx context.Context) ([]Object, error) {
	var objects []Object

	pager := s.client.NewListBlobsFlatPager(s.containerName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			parts := strings.SplitN(*item.Name, "/", 2)
			if len(parts) != 2 {
				continue
			}
			requestID, err := uuid.Parse(parts[0])
			if err != nil {
				continue
			}
			objects = append(objects, Object{RequestID: requestID, Filename: parts[1]})
		}
	}

	return objects, nil
}
