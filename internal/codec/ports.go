package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WEBP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat: пустая строка → png, "jpg" — синоним jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "webp":
		return WEBP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) Ext() string { return "." + string(f) }

func (f Format) ContentType() string { return "image/" + string(f) }

// Codec перекодирует растровое изображение в целевой формат.
type Codec interface {
	Convert(ctx context.Context, src io.Reader, dst io.Writer, to Format) error
}
