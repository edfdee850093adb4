package error_notificator

import (
	"context"
	"time"
)

const notifyTimeout = 5 * time.Second

type Service struct {
	infra Notificator
}

func NewService(infra Notificator) *Service {
	return &Service{infra: infra}
}

// Notify не зависит от контекста запроса: к моменту алерта клиент
// обычно уже отвалился.
func (s *Service) Notify(ctx context.Context, err error, details string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	return s.infra.Notify(ctx, err, details)
}
