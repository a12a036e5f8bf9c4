package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

func newTestStore(t *testing.T) *UploadStore {
	t.Helper()
	s, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSaveImage(t *testing.T) {
	s := newTestStore(t)

	url, err := s.SaveImage(strings.NewReader("fake-png-bytes"), "photo.PNG", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"), "extension is lowercased: %s", url)

	rel := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(s.BaseDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(data))
}

func TestSaveImageCustomFolder(t *testing.T) {
	s := newTestStore(t)

	url, err := s.SaveImage(strings.NewReader("x"), "p.jpg", "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/products/"))
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	s := newTestStore(t)

	var ve *apperr.ValidationError
	_, err := s.SaveImage(strings.NewReader("x"), "script.exe", "")
	require.ErrorAs(t, err, &ve)
	_, err = s.SaveImage(strings.NewReader("x"), "clip.mp4", "")
	assert.ErrorAs(t, err, &ve)
	_, err = s.SaveVideo(strings.NewReader("x"), "photo.jpg", "")
	assert.ErrorAs(t, err, &ve)
}

func TestSaveImageRejectsOversize(t *testing.T) {
	s := newTestStore(t)

	big := bytes.NewReader(make([]byte, MaxImageSize+1))
	var ve *apperr.ValidationError
	_, err := s.SaveImage(big, "huge.jpg", "")
	require.ErrorAs(t, err, &ve)

	entries, err := os.ReadDir(filepath.Join(s.BaseDir, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not leave a file behind")
}

func TestSaveImageRejectsEmpty(t *testing.T) {
	s := newTestStore(t)

	var ve *apperr.ValidationError
	_, err := s.SaveImage(strings.NewReader(""), "empty.jpg", "")
	assert.ErrorAs(t, err, &ve)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	url, err := s.SaveImage(strings.NewReader("x"), "p.jpg", "")
	require.NoError(t, err)

	ok, err := s.Delete(url)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(url)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports missing")
}

func TestDeleteStaysInsideBaseDir(t *testing.T) {
	s := newTestStore(t)

	for _, p := range []string{
		"/uploads/../../../etc/passwd",
		"/etc/passwd",
		"/uploads/",
		"images/p.jpg",
	} {
		_, err := s.Delete(p)
		assert.Error(t, err, "path %s", p)
	}
}
