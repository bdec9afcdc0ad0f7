package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/git-comments/pkg/log"
)

// Logging кладёт в контекст request-scoped логгер (request_id, post_id из query)
// и пишет итоговую запись "http_request" с шаблоном маршрута.
// Уровень записи зависит от статуса: 5xx — Error, 4xx — Warn.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logctx.Into(r.Context(), l)
			if rid := logctx.RequestID(ctx); rid != "" {
				ctx = logctx.With(ctx, slog.String("request_id", rid))
			}
			if postID := r.URL.Query().Get("post_id"); postID != "" {
				ctx = logctx.With(ctx, slog.String("post_id", postID))
			}
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			status := sw.code()
			logctx.From(ctx).LogAttrs(ctx, levelFor(status), "http_request",
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
