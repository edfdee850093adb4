package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Writer пишет ZIP потоково: каждая запись уходит в dst сразу после Add,
// центральный каталог — только в Close. Без Close архив невалиден.
type Writer struct {
	zw      *zip.Writer
	level   int
	entries int
	closed  bool
}

func NewWriter(dst io.Writer, level int) *Writer {
	zw := zip.NewWriter(dst)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return &Writer{zw: zw, level: level}
}

// Add копирует r в новую запись name и сбрасывает буфер в dst.
func (w *Writer) Add(name string, r io.Reader) (int64, error) {
	if w.closed {
		return 0, fmt.Errorf("archive already closed")
	}
	method := zip.Deflate
	if w.level == flate.NoCompression {
		method = zip.Store
	}
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: method,
	})
	if err != nil {
		return 0, fmt.Errorf("create entry %s: %w", name, err)
	}
	n, err := io.Copy(fw, r)
	if err != nil {
		return n, fmt.Errorf("write entry %s: %w", name, err)
	}
	if err := w.zw.Flush(); err != nil {
		return n, fmt.Errorf("flush entry %s: %w", name, err)
	}
	w.entries++
	return n, nil
}

func (w *Writer) Entries() int { return w.entries }

// Close дописывает центральный каталог.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.zw.Close()
}
