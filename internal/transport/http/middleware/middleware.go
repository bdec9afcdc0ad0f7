package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware — стандартный net/http мидлвар (совместим с chi.Router.Use).
type Middleware func(http.Handler) http.Handler

// unmatchedRoute — метка для запросов, не попавших ни в один маршрут (404 chi, preflight).
const unmatchedRoute = "unmatched"

// routePattern возвращает шаблон маршрута chi (/comments/{hash}), а не сырой путь.
// Значение полное только после того, как chi выполнил маршрутизацию.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}

	return unmatchedRoute
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

// code возвращает итоговый статус (200, если хендлер ничего не записал).
func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}

	return w.status
}

// written сообщает, что заголовки ответа уже отправлены.
func (w *statusWriter) written() bool { return w.status != 0 }

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}

	return &statusWriter{ResponseWriter: w}
}
