package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const maxFieldSize = 1 << 10

// Form — разобранный multipart-запрос.
type Form struct {
	Format string
}

// ReadMultipart читает части запроса по одной и сразу складывает файлы из
// поля fileField в batch, не буферизуя тело целиком. Текстовые поля
// (format) могут идти в любом порядке относительно файлов.
func ReadMultipart(ctx context.Context, mr *multipart.Reader, batch *Batch, fileField string) (Form, error) {
	var form Form

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, fmt.Errorf("read part: %w", err)
		}

		switch {
		case part.FormName() == fileField && part.FileName() != "":
			name := filepath.Base(part.FileName())
			_, err = batch.Add(ctx, name, part)
		case part.FormName() == "format":
			var b []byte
			b, err = io.ReadAll(io.LimitReader(part, maxFieldSize))
			form.Format = strings.TrimSpace(string(b))
		default:
			_, err = io.Copy(io.Discard, part)
		}
		part.Close()
		if err != nil {
			return form, err
		}
	}

	if batch.Len() == 0 {
		return form, ErrNoFiles
	}
	return form, nil
}
