package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// StorageService keeps uploaded character images in a local directory that
// the router serves at /uploads, standing in for the hosted object bucket.
// Object names are a millisecond timestamp plus the sanitized original
// filename, same scheme the deployed bucket already contains.
type StorageService struct {
	dir     string
	baseURL string
}

type ImageUpload struct {
	Filename string
	Content  io.Reader
}

func NewStorageService(dir string, baseURL string) (*StorageService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &StorageService{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func SanitizeFilename(name string) string {
	return unsafeNameChars.ReplaceAllString(filepath.Base(name), "-")
}

// Save writes the upload and returns its stable public URL.
func (s *StorageService) Save(filename string, content io.Reader) (string, error) {
	objectName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(filename))

	dst, err := os.Create(filepath.Join(s.dir, objectName))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return s.baseURL + "/uploads/" + objectName, nil
}
