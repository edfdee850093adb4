package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Vovarama1992/image_converter/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Batch — временные ресурсы одного запроса. Всё, что положено через Batch,
// удаляется в Release, каким бы путём ни завершился запрос.
type Batch struct {
	ID    string
	store storage.Store

	mu    sync.Mutex
	files []File
	keys  map[string]struct{}
}

func NewBatch(store storage.Store) *Batch {
	return &Batch{
		ID:    uuid.NewString(),
		store: store,
		keys:  make(map[string]struct{}),
	}
}

// Add сохраняет загруженный файл и добавляет его в список файлов запроса.
func (b *Batch) Add(ctx context.Context, name string, r io.Reader) (File, error) {
	key, size, err := b.Stage(ctx, name, r, -1)
	if err != nil {
		return File{}, err
	}
	f := File{Key: key, Name: name, Size: size}

	b.mu.Lock()
	b.files = append(b.files, f)
	b.mu.Unlock()
	return f, nil
}

// Stage кладёт произвольный временный объект (например, результат
// конвертации) под новым уникальным ключом.
func (b *Batch) Stage(ctx context.Context, name string, r io.Reader, size int64) (string, int64, error) {
	key := b.ID + "-" + uuid.NewString() + safeExt(name)

	// ключ регистрируем до записи: частично записанный объект тоже уберём
	b.mu.Lock()
	b.keys[key] = struct{}{}
	b.mu.Unlock()

	n, err := b.store.Put(ctx, key, r, size)
	if err != nil {
		return "", 0, fmt.Errorf("stage %s: %w", name, err)
	}
	return key, n, nil
}

func (b *Batch) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return b.store.Open(ctx, key)
}

// Discard удаляет объект сразу, не дожидаясь Release. Best effort.
func (b *Batch) Discard(ctx context.Context, key string) error {
	err := b.store.Remove(ctx, key)
	if err == nil {
		b.mu.Lock()
		delete(b.keys, key)
		b.mu.Unlock()
	}
	return err
}

func (b *Batch) Files() []File {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]File, len(b.files))
	copy(out, b.files)
	return out
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files)
}

// Pending — сколько временных объектов ещё не удалено.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}

// Release удаляет все оставшиеся временные объекты. Вызывать через defer
// с контекстом, не зависящим от клиента: отвал клиента не должен оставлять мусор.
func (b *Batch) Release(ctx context.Context) error {
	b.mu.Lock()
	keys := make([]string, 0, len(b.keys))
	for k := range b.keys {
		keys = append(keys, k)
	}
	b.mu.Unlock()

	var errs error
	for _, k := range keys {
		if err := b.Discard(ctx, k); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", k, err))
		}
	}
	return errs
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}
