// Package storage сохраняет загруженные медиафайлы рекламы.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Storage сохраняет объект и возвращает его публичный URL
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL восстанавливает ключ по URL, выданному Save. false, если URL чужой.
	KeyFromURL(url string) (string, bool)
}

// ErrInvalidKey возвращается для ключей, выходящих за пределы хранилища
var ErrInvalidKey = errors.New("storage: invalid key")

// ContentType определяет MIME тип по расширению файла
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", ErrInvalidKey
	}
	return k, nil
}

// Local хранит файлы в каталоге на диске, раздаваемом сервером
type Local struct {
	dir     string
	baseURL string
}

// NewLocal создаёт каталог загрузки при необходимости
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию загрузки %s: %w", dir, err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir возвращает корневой каталог для раздачи статики
func (l *Local) Dir() string { return l.dir }

func (l *Local) Save(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(l.dir, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать директорию: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл: %w", err)
	}
	if _, err := io.Copy(dst, readerWithContext(ctx, r)); err != nil {
		dst.Close()
		os.Remove(full) // частично записанный файл
		return "", fmt.Errorf("не удалось сохранить файл: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("не удалось сохранить файл: %w", err)
	}
	return l.baseURL + "/" + k, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	full := filepath.Join(l.dir, filepath.FromSlash(k))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("не удалось удалить файл %s: %w", full, err)
	}
	return nil
}

func (l *Local) KeyFromURL(url string) (string, bool) {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	k, err := cleanKey(strings.TrimPrefix(url, prefix))
	if err != nil {
		return "", false
	}
	return k, true
}

// DeleteByURL удаляет объект по URL. Чужие URL игнорируются.
func DeleteByURL(ctx context.Context, s Storage, url string) {
	if s == nil || url == "" {
		return
	}
	key, ok := s.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("component", "Storage").Str("key", key).Msg("Не удалось удалить медиафайл")
	}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	if ctx == nil {
		return r
	}
	return ctxReader{ctx: ctx, r: r}
}
