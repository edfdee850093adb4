package codec

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	_ "image/gif"

	"github.com/HugoSmits86/nativewebp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageCodec — чистый Go: декодирует всё, что зарегистрировано в image,
// кодирует в png/jpeg/webp. Выход детерминирован для одинакового входа.
type ImageCodec struct {
	jpegQuality int
	png         png.Encoder
}

func NewImageCodec(jpegQuality int) *ImageCodec {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = jpeg.DefaultQuality
	}
	return &ImageCodec{
		jpegQuality: jpegQuality,
		png:         png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

func (c *ImageCodec) Convert(ctx context.Context, src io.Reader, dst io.Writer, to Format) error {
	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	// декодирование — самая долгая часть; отмену проверяем после него
	if err := ctx.Err(); err != nil {
		return err
	}

	switch to {
	case PNG:
		err = c.png.Encode(dst, img)
	case JPEG:
		err = jpeg.Encode(dst, img, &jpeg.Options{Quality: c.jpegQuality})
	case WEBP:
		err = nativewebp.Encode(dst, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, to)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", to, err)
	}
	return nil
}
