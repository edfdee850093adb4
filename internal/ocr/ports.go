package ocr

import "context"

// NoTextPlaceholder подставляется, когда движок ничего не распознал или упал.
const NoTextPlaceholder = "No text detected"

// Engine распознаёт текст на одном изображении.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Source — откуда брать байты очередного файла.
type Source struct {
	Name string
	Open func(ctx context.Context) ([]byte, error)
}

type Result struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Detected bool   `json:"detected"`
}
