package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pribylovaa/git-comments/internal/metrics"
)

// Metrics пишет счётчик и латентность запроса.
// Метка route — шаблон маршрута chi, не сырой путь. nil-метрики делают мидлвар no-op.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := routePattern(r)
			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.code())).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
