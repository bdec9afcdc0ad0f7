package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	logctx "github.com/pribylovaa/git-comments/pkg/log"
)

// HeaderRequestID — заголовок корреляции запросов.
const HeaderRequestID = "X-Request-Id"

// validRequestID — входящий id попадает в логи и тело ошибки, поэтому допускаем только безопасные символы.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID принимает X-Request-Id клиента, если он корректен, иначе генерирует
// новый (32 hex). Id уходит в заголовок ответа и в контекст (logctx.RequestID).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if !validRequestID.MatchString(id) {
				id = genID()
			}

			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logctx.WithRequestID(r.Context(), id)))
		})
	}
}

func genID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
