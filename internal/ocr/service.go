package ocr

import (
	"context"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
)

type Service struct {
	engine Engine
	log    *logger.ZapLogger
}

func NewService(engine Engine, log *logger.ZapLogger) *Service {
	return &Service{engine: engine, log: log}
}

// ExtractText обрабатывает файлы строго по очереди. Ошибка одного файла не
// прерывает пакет: вместо текста идёт NoTextPlaceholder. Результаты
// выровнены по индексу с входом. Ошибку возвращает только отмена ctx.
func (s *Service) ExtractText(ctx context.Context, files []Source) ([]Result, error) {
	results := make([]Result, 0, len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.recognize(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "ocr failed for " + f.Name + " (" + s.engine.Name() + ")",
				Error:   err,
			})
		}

		text = strings.TrimSpace(text)
		if text == "" {
			results = append(results, Result{Name: f.Name, Text: NoTextPlaceholder})
			continue
		}
		results = append(results, Result{Name: f.Name, Text: text, Detected: true})
	}

	return results, nil
}

func (s *Service) recognize(ctx context.Context, f Source) (string, error) {
	data, err := f.Open(ctx)
	if err != nil {
		return "", err
	}
	return s.engine.Recognize(ctx, data)
}
