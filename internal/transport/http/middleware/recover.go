package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pribylovaa/git-comments/internal/metrics"
	"github.com/pribylovaa/git-comments/internal/service"
	apierrors "github.com/pribylovaa/git-comments/internal/transport/http/errors"
	logctx "github.com/pribylovaa/git-comments/pkg/log"
)

// Recover перехватывает panic хендлера: учитывает её в метрике по маршруту,
// логирует со стеком и отвечает 500/internal, если ответ ещё не начат.
// http.ErrAbortHandler пробрасывается дальше.
func Recover(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				route := routePattern(r)
				m.ObservePanic(route)

				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic_recovered",
					slog.String("route", route),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !sw.written() {
					apierrors.WriteError(sw, r, service.ErrInternal)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
