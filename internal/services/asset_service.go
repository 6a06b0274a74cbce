package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAssetInvalidInput indicates the upload payload is missing or malformed.
	ErrAssetInvalidInput = errors.New("asset: invalid input")
	// ErrAssetTooLarge indicates the payload exceeds the configured limit.
	ErrAssetTooLarge = errors.New("asset: payload too large")
)

// AssetUploader writes an object and returns its public URL.
type AssetUploader interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
}

// AssetUploadCommand carries an image upload.
type AssetUploadCommand struct {
	ContentType string
	Data        []byte
}

// AssetUploadResult describes the stored object.
type AssetUploadResult struct {
	URL        string
	Object     string
	UploadedAt time.Time
}

// AssetServiceDeps bundles collaborators required to construct an asset service instance.
type AssetServiceDeps struct {
	Uploader AssetUploader
	MaxBytes int64
	Clock    func() time.Time
}

type assetService struct {
	uploader AssetUploader
	maxBytes int64
	clock    func() time.Time
}

const defaultAssetMaxBytes = 2 << 20

// NewAssetService constructs a service that stores uploaded badge and profile images.
func NewAssetService(deps AssetServiceDeps) (AssetService, error) {
	if deps.Uploader == nil {
		return nil, errors.New("asset service: uploader is required")
	}
	maxBytes := deps.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultAssetMaxBytes
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &assetService{
		uploader: deps.Uploader,
		maxBytes: maxBytes,
		clock:    clock,
	}, nil
}

func (s *assetService) Upload(ctx context.Context, cmd AssetUploadCommand) (AssetUploadResult, error) {
	if len(cmd.Data) == 0 {
		return AssetUploadResult{}, fmt.Errorf("%w: data is empty", ErrAssetInvalidInput)
	}
	if int64(len(cmd.Data)) > s.maxBytes {
		return AssetUploadResult{}, ErrAssetTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(cmd.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return AssetUploadResult{}, fmt.Errorf("%w: content type %q is not an image", ErrAssetInvalidInput, cmd.ContentType)
	}

	// Content-addressed names make repeated uploads idempotent and safe to
	// cache forever.
	sum := sha256.Sum256(cmd.Data)
	object := "assets/" + hex.EncodeToString(sum[:16]) + extensionFor(contentType)

	url, err := s.uploader.Upload(ctx, object, contentType, cmd.Data)
	if err != nil {
		return AssetUploadResult{}, err
	}

	return AssetUploadResult{
		URL:        url,
		Object:     object,
		UploadedAt: s.clock().UTC(),
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
