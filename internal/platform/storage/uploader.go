package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
)

var allowedUploadTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

var errContentTypeDenied = errors.New("storage uploader: content type not allowed")

// Uploader writes user-supplied images into the assets bucket so they can be
// referenced by profile and badge parameters.
type Uploader struct {
	client *gcs.Client
	bucket string
}

// NewUploader constructs an Uploader backed by the provided Cloud Storage client.
func NewUploader(client *gcs.Client, bucket string) (*Uploader, error) {
	if client == nil {
		return nil, errors.New("storage uploader: client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage uploader: bucket is required")
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// Upload writes data under the given object name and returns the public URL.
// Objects are cached aggressively since names embed a content hash upstream.
func (u *Uploader) Upload(ctx context.Context, object, contentType string, data []byte) (string, error) {
	if u == nil || u.client == nil {
		return "", errors.New("storage uploader: not initialised")
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return "", errors.New("storage uploader: object name is required")
	}
	if len(data) == 0 {
		return "", errors.New("storage uploader: data is empty")
	}
	if !uploadTypeAllowed(contentType) {
		return "", errContentTypeDenied
	}

	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage uploader: write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage uploader: close %s: %w", object, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, object), nil
}

func uploadTypeAllowed(contentType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.IndexByte(normalized, ';'); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	for _, candidate := range allowedUploadTypes {
		if normalized == candidate {
			return true
		}
	}
	return false
}
