package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/git-comments/internal/metrics"
	apierrors "github.com/pribylovaa/git-comments/internal/transport/http/errors"
	logctx "github.com/pribylovaa/git-comments/pkg/log"
)

// Timeout ограничивает запрос сервисным дедлайном d (более ранний дедлайн родителя сохраняется).
// Если дедлайн истёк, запрос учитывается в метрике; молчавшему хендлеру отвечаем 504.
// Значение <=0 делает мидлвар no-op.
func Timeout(d time.Duration, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			route := routePattern(r)
			m.ObserveTimeout(route)
			logctx.From(ctx).Warn("request_timeout", slog.String("route", route), slog.Duration("timeout", d))

			if !sw.written() {
				apierrors.WriteError(sw, r, context.DeadlineExceeded)
			}
		})
	}
}
