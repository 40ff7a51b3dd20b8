package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com/"

// GCS хранит медиа в бакете Google Cloud Storage
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS создаёт клиента. Пустой credentialsFile означает учётные данные по умолчанию.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиента GCS: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(k).NewWriter(ctx)
	if contentType == "" {
		contentType = ContentType(k)
	}
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("не удалось загрузить %s в GCS: %w", k, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("не удалось завершить загрузку %s в GCS: %w", k, err)
	}
	return g.objectURL(k), nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = g.client.Bucket(g.bucket).Object(k).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("не удалось удалить %s из GCS: %w", k, err)
	}
	return nil
}

func (g *GCS) KeyFromURL(url string) (string, bool) {
	prefix := gcsPublicHost + g.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	k, err := cleanKey(strings.TrimPrefix(url, prefix))
	if err != nil {
		return "", false
	}
	return k, true
}

func (g *GCS) objectURL(key string) string {
	return gcsPublicHost + g.bucket + "/" + key
}

// Close закрывает клиента
func (g *GCS) Close() error {
	return g.client.Close()
}
