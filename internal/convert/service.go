package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/image_converter/internal/archive"
	"github.com/Vovarama1992/image_converter/internal/codec"
	"github.com/Vovarama1992/image_converter/internal/upload"
)

// Artifact — результат конвертации одного файла, лежит в batch до Release.
type Artifact struct {
	Name string
	Key  string
	Size int64
}

type Pipeline struct {
	codec       codec.Codec
	log         *logger.ZapLogger
	compression int
}

// NewPipeline: compression — уровень flate для записей архива.
func NewPipeline(c codec.Codec, compression int, log *logger.ZapLogger) *Pipeline {
	return &Pipeline{codec: c, compression: compression, log: log}
}

// ConvertSingle перекодирует один файл. Оригинал и результат остаются в
// batch: их удалит Release после отправки ответа.
func (p *Pipeline) ConvertSingle(ctx context.Context, b *upload.Batch, f upload.File, to codec.Format) (Artifact, error) {
	return p.convert(ctx, b, 0, f, to)
}

// ConvertBatch конвертирует файлы строго по порядку и пишет каждый результат
// в архив dst сразу по готовности. Любая ошибка кодека прерывает пакет:
// архив остаётся без центрального каталога и не выдаётся за целый.
// Оригинал удаляется сразу после своей конвертации, результаты — после
// закрытия архива.
func (p *Pipeline) ConvertBatch(ctx context.Context, b *upload.Batch, to codec.Format, dst io.Writer) (int, error) {
	files := b.Files()
	if len(files) == 0 {
		return 0, ErrNoFiles
	}

	aw := archive.NewWriter(dst, p.compression)
	names := NewNamer()
	staged := make([]string, 0, len(files))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return aw.Entries(), err
		}

		art, err := p.convert(ctx, b, i, f, to)
		if err != nil {
			return aw.Entries(), err
		}
		staged = append(staged, art.Key)
		p.discard(ctx, b, f.Key)

		name := names.Next(art.Name)
		if err := p.appendEntry(ctx, b, aw, name, art.Key); err != nil {
			return aw.Entries(), err
		}
	}

	if err := aw.Close(); err != nil {
		return aw.Entries(), &ArchiveError{Err: err}
	}

	for _, key := range staged {
		p.discard(ctx, b, key)
	}

	p.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("batch %s: %d files archived as %s", b.ID, len(files), to),
	})
	return aw.Entries(), nil
}

func (p *Pipeline) convert(ctx context.Context, b *upload.Batch, i int, f upload.File, to codec.Format) (Artifact, error) {
	src, err := b.Open(ctx, f.Key)
	if err != nil {
		return Artifact{}, &CodecError{Index: i, Name: f.Name, Err: err}
	}
	defer src.Close()

	var out bytes.Buffer
	if err := p.codec.Convert(ctx, src, &out, to); err != nil {
		return Artifact{}, &CodecError{Index: i, Name: f.Name, Err: err}
	}

	name := OutputName(f.Name, to)
	size := int64(out.Len())
	key, _, err := b.Stage(ctx, name, &out, size)
	if err != nil {
		return Artifact{}, &CodecError{Index: i, Name: f.Name, Err: err}
	}

	p.log.Log(logger.LogEntry{
		Level: "debug",
		Message: fmt.Sprintf("batch %s: %s (%s) → %s (%s)",
			b.ID, f.Name, humanize.Bytes(uint64(f.Size)), name, humanize.Bytes(uint64(size))),
	})

	return Artifact{Name: name, Key: key, Size: size}, nil
}

func (p *Pipeline) appendEntry(ctx context.Context, b *upload.Batch, aw *archive.Writer, name, key string) error {
	rc, err := b.Open(ctx, key)
	if err != nil {
		return &ArchiveError{Entry: name, Err: err}
	}
	defer rc.Close()

	if _, err := aw.Add(name, rc); err != nil {
		return &ArchiveError{Entry: name, Err: err}
	}
	return nil
}

// discard — best effort, ошибка только в лог; Release попробует ещё раз.
func (p *Pipeline) discard(ctx context.Context, b *upload.Batch, key string) {
	if err := b.Discard(ctx, key); err != nil {
		p.log.Log(logger.LogEntry{Level: "warn", Message: "temp cleanup failed", Error: err})
	}
}
