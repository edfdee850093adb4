package convert

import (
	"errors"
	"fmt"

	"github.com/Vovarama1992/image_converter/internal/codec"
	"github.com/Vovarama1992/image_converter/internal/upload"
)

// Ошибки валидации — 400 у клиента.
var (
	ErrNoFiles           = upload.ErrNoFiles
	ErrUnsupportedFormat = codec.ErrUnsupportedFormat
)

// CodecError — файл не удалось прочитать или перекодировать. Прерывает пакет.
type CodecError struct {
	Index int
	Name  string
	Err   error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("convert file #%d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// ArchiveError — сбой записи в архив (обычно отвалился клиент).
type ArchiveError struct {
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("archive: %v", e.Err)
	}
	return fmt.Sprintf("archive entry %s: %v", e.Entry, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// IsValidation — ошибка вызвана входными данными, а не сервером.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoFiles) || errors.Is(err, ErrUnsupportedFormat)
}
