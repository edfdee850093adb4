package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// Store — эфемерное хранилище временных файлов одного процесса.
// Уникальность ключей обеспечивает вызывающий (upload.Batch).
type Store interface {
	// Put сохраняет поток под ключом; size = -1, если размер неизвестен.
	Put(ctx context.Context, key string, r io.Reader, size int64) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
