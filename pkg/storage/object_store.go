package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBucketNotFound is returned when an operation targets a bucket that has
// not been provisioned.
var ErrBucketNotFound = errors.New("bucket not found")

// ObjectStore persists binary objects on disk, addressed by bucket + path,
// and resolves publicly fetchable URLs for them.
type ObjectStore struct {
	baseDir       string
	publicBaseURL string
}

// NewObjectStore returns a store rooted at baseDir. Buckets are provisioned
// separately via EnsureBucket; uploads into unknown buckets fail.
func NewObjectStore(baseDir, publicBaseURL string) (*ObjectStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &ObjectStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// EnsureBucket provisions a bucket directory.
func (s *ObjectStore) EnsureBucket(bucket string) error {
	if bucket == "" {
		return fmt.Errorf("bucket name required")
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, bucket), 0o755); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload writes the object under bucket/path. The bucket must already exist.
func (s *ObjectStore) Upload(bucket, path string, data []byte) error {
	bucketDir := filepath.Join(s.baseDir, bucket)
	if info, err := os.Stat(bucketDir); err != nil || !info.IsDir() {
		return fmt.Errorf("upload to %s/%s: %w", bucket, path, ErrBucketNotFound)
	}
	target := filepath.Join(bucketDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare object directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// PublicURL resolves the permanent public URL for a stored object.
func (s *ObjectStore) PublicURL(bucket, path string) (string, error) {
	if s.publicBaseURL == "" {
		return "", fmt.Errorf("public base URL not configured")
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, strings.TrimLeft(path, "/")), nil
}

// Remove deletes a stored object. Missing objects are not an error.
func (s *ObjectStore) Remove(bucket, path string) error {
	target := filepath.Join(s.baseDir, bucket, filepath.FromSlash(path))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// BaseDir exposes the root directory so the HTTP layer can serve objects.
func (s *ObjectStore) BaseDir() string {
	return s.baseDir
}

// NewObjectKey derives a randomized storage key preserving the original
// file extension: {timestamp}_{randomToken}.{ext}.
func NewObjectKey(originalFilename string) string {
	ext := strings.TrimPrefix(filepath.Ext(originalFilename), ".")
	if ext == "" {
		ext = "bin"
	}
	buf := make([]byte, 8)
	token := fmt.Sprintf("%d", time.Now().UnixNano())
	if _, err := rand.Read(buf); err == nil {
		token = hex.EncodeToString(buf)
	}
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), token, strings.ToLower(ext))
}
