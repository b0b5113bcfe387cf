package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient is the blob store for reference photos, generated images and
// rendered videos. Storage ids are object paths inside the bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		now:     time.Now,
	}, nil
}

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
	"video/mp4":  "mp4",
}

// ObjectPath builds the storage path for a new blob:
// {images|videos|files}/{yyyy}/{mm}/{id}.{ext}
func ObjectPath(mimeType string, id uuid.UUID, now time.Time) string {
	folder := "files"
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		folder = "images"
	case strings.HasPrefix(mimeType, "video/"):
		folder = "videos"
	}

	ext, ok := extensions[strings.ToLower(mimeType)]
	if !ok {
		ext = "bin"
	}

	return fmt.Sprintf("%s/%04d/%02d/%s.%s", folder, now.Year(), int(now.Month()), id.String(), ext)
}

// Put uploads data and returns its storage id.
func (s *StorageClient) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty blob")
	}

	storagePath := ObjectPath(mimeType, uuid.New(), s.now().UTC())
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &mimeType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, nil
}

// URL returns the public URL of a stored blob, or "" for an empty id.
func (s *StorageClient) URL(storageID string) string {
	if storageID == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storageID)
}

func (s *StorageClient) Get(ctx context.Context, storageID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.client.DownloadFile(s.bucket, storageID)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}
