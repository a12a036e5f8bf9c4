package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

const (
	MaxImageSize = 5 << 20   // 5 MB
	MaxVideoSize = 100 << 20 // 100 MB
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".flv": true, ".webm": true}
)

// UploadStore persists multipart uploads on local disk under a base
// directory and hands back /uploads/... URLs.
type UploadStore struct {
	BaseDir string
}

func NewUploadStore(baseDir string) (*UploadStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{BaseDir: baseDir}, nil
}

func (s *UploadStore) save(r io.Reader, filename, folder string, maxSize int64, allowed map[string]bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return "", apperr.Invalid("file", fmt.Sprintf("file type %s is not allowed", ext))
	}

	dir := filepath.Join(s.BaseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	// Copy one byte past the cap to detect oversized uploads.
	n, err := io.Copy(f, io.LimitReader(r, maxSize+1))
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > maxSize {
		os.Remove(dst)
		return "", apperr.Invalid("file", fmt.Sprintf("file size exceeds %dMB limit", maxSize>>20))
	}
	if n == 0 {
		os.Remove(dst)
		return "", apperr.Invalid("file", "no file provided")
	}
	return "/uploads/" + folder + "/" + name, nil
}

func (s *UploadStore) SaveImage(r io.Reader, filename, folder string) (string, error) {
	if folder == "" {
		folder = "images"
	}
	return s.save(r, filename, folder, MaxImageSize, imageExts)
}

func (s *UploadStore) SaveVideo(r io.Reader, filename, folder string) (string, error) {
	if folder == "" {
		folder = "videos"
	}
	return s.save(r, filename, folder, MaxVideoSize, videoExts)
}

func (s *UploadStore) SaveThumbnail(r io.Reader, filename string) (string, error) {
	return s.save(r, filename, "thumbnails", MaxImageSize, imageExts)
}

// Delete removes a stored file by its /uploads/... URL. The cleaned path
// must stay inside the base directory. Reports false when the file does
// not exist.
func (s *UploadStore) Delete(urlPath string) (bool, error) {
	rel, ok := strings.CutPrefix(path.Clean("/"+strings.TrimPrefix(urlPath, "/")), "/uploads/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return false, apperr.Invalid("path", "not an upload URL")
	}
	err := os.Remove(filepath.Join(s.BaseDir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete upload: %w", err)
	}
	return true, nil
}
