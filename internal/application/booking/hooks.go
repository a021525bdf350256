package booking

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Tiquetes-api/pkg/logger"
)

const hookTimeout = 5 * time.Second

// hooks despacha los ganchos salientes en segundo plano, desacoplados de la
// cancelación del request que los originó.
type hooks struct {
	notifier Notifier
	log      *logger.Logger
	inflight *sync.WaitGroup
}

func newHooks(notifier Notifier, log *logger.Logger) hooks {
	return hooks{notifier: notifier, log: log, inflight: &sync.WaitGroup{}}
}

func (h hooks) fire(ctx context.Context, event string, fn func(ctx context.Context, n Notifier) error) {
	if h.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		hookCtx, cancel := context.WithTimeout(bg, hookTimeout)
		defer cancel()
		if err := fn(hookCtx, h.notifier); err != nil {
			h.log.Warn().Err(err).Str("event", event).Msg("gancho de notificación falló")
		}
	}()
}

// drain espera los ganchos en vuelo o hasta que ctx venza.
func (h hooks) drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
