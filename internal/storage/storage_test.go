package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, "/uploads/")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "ads/T20/acme_1.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ads/T20/acme_1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "ads", "T20", "acme_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	key, ok := s.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "ads/T20/acme_1.png", key)

	require.NoError(t, s.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, "ads", "T20", "acme_1.png"))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(context.Background(), key))
}

func TestLocal_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(filepath.Join(dir, "up"), "/uploads")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "../../evil.txt", strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/evil.txt", url)
	_, err = os.Stat(filepath.Join(dir, "up", "evil.txt"))
	assert.NoError(t, err)

	_, err = s.Save(context.Background(), "  ", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocal_KeyFromForeignURL(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, ok := s.KeyFromURL("https://cdn.example.com/ad.png")
	assert.False(t, ok)
}

func TestLocal_SaveCancelledContext(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Save(ctx, "a.png", strings.NewReader("data"), "")
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "a.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("x.JPG"))
	assert.Equal(t, "video/mp4", ContentType("clip.mp4"))
	assert.Equal(t, "application/octet-stream", ContentType("doc.pdf"))
}

func TestGCS_KeyFromURL(t *testing.T) {
	g := &GCS{bucket: "indcric-ads"}
	assert.Equal(t, "https://storage.googleapis.com/indcric-ads/ads/T20/a.png", g.objectURL("ads/T20/a.png"))

	key, ok := g.KeyFromURL("https://storage.googleapis.com/indcric-ads/ads/T20/a.png")
	require.True(t, ok)
	assert.Equal(t, "ads/T20/a.png", key)

	_, ok = g.KeyFromURL("https://storage.googleapis.com/other/ads/a.png")
	assert.False(t, ok)
}
