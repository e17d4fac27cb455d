package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const defaultQueryTimeout = 30 * time.Second

// wrapDBError preserva o código do Postgres na mensagem quando disponível
func wrapDBError(action string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("erro no banco de dados ao %s: %w (código: %s)", action, pqErr, pqErr.Code)
	}
	return fmt.Errorf("erro ao %s: %w", action, err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
