package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubUploader struct {
	objects []string
	types   []string
	err     error
}

func (s *stubUploader) Upload(_ context.Context, object, contentType string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.objects = append(s.objects, object)
	s.types = append(s.types, contentType)
	return "https://storage.googleapis.com/test-bucket/" + object, nil
}

func TestAssetServiceUpload(t *testing.T) {
	uploader := &stubUploader{}
	svc, err := NewAssetService(AssetServiceDeps{Uploader: uploader})
	if err != nil {
		t.Fatalf("NewAssetService: %v", err)
	}

	result, err := svc.Upload(context.Background(), AssetUploadCommand{
		ContentType: "image/png",
		Data:        []byte("fake png bytes"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(uploader.objects) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(uploader.objects))
	}
	if !strings.HasPrefix(uploader.objects[0], "assets/") || !strings.HasSuffix(uploader.objects[0], ".png") {
		t.Errorf("unexpected object name %s", uploader.objects[0])
	}
	if result.URL == "" {
		t.Error("expected public url")
	}
}

func TestAssetServiceUploadIsContentAddressed(t *testing.T) {
	uploader := &stubUploader{}
	svc, err := NewAssetService(AssetServiceDeps{Uploader: uploader})
	if err != nil {
		t.Fatalf("NewAssetService: %v", err)
	}

	cmd := AssetUploadCommand{ContentType: "image/png", Data: []byte("same bytes")}
	first, err := svc.Upload(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	second, err := svc.Upload(context.Background(), cmd)
	if err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if first.Object != second.Object {
		t.Fatalf("expected identical object names, got %s vs %s", first.Object, second.Object)
	}
}

func TestAssetServiceUploadValidation(t *testing.T) {
	svc, err := NewAssetService(AssetServiceDeps{Uploader: &stubUploader{}, MaxBytes: 10})
	if err != nil {
		t.Fatalf("NewAssetService: %v", err)
	}

	if _, err := svc.Upload(context.Background(), AssetUploadCommand{ContentType: "image/png"}); !errors.Is(err, ErrAssetInvalidInput) {
		t.Errorf("expected ErrAssetInvalidInput for empty data, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), AssetUploadCommand{
		ContentType: "image/png",
		Data:        []byte("this payload is larger than ten bytes"),
	}); !errors.Is(err, ErrAssetTooLarge) {
		t.Errorf("expected ErrAssetTooLarge, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), AssetUploadCommand{
		ContentType: "text/html",
		Data:        []byte("<html>"),
	}); !errors.Is(err, ErrAssetInvalidInput) {
		t.Errorf("expected ErrAssetInvalidInput for non-image, got %v", err)
	}
}

func TestAssetServiceRequiresUploader(t *testing.T) {
	if _, err := NewAssetService(AssetServiceDeps{}); err == nil {
		t.Fatal("expected error for missing uploader")
	}
}
