// errors стандартизирует ответы об ошибках HTTP API.
// На вход принимает ошибку сервисного слоя (service.Err*), на выход даёт:
//   - корректный HTTP-статус;
//   - стабильный машиночитаемый code;
//   - безопасное message без утечки деталей.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/git-comments/internal/service"
	logctx "github.com/pribylovaa/git-comments/pkg/log"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиента.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// messageError подменяет message ответа, сохраняя маппинг по обёрнутой ошибке.
type messageError struct {
	err error
	msg string
}

func (e *messageError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *messageError) Unwrap() error { return e.err }

// WithMessage задаёт человекочитаемое сообщение для ответа (например, разное для edit/delete).
func WithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}

	return &messageError{err: err, msg: msg}
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - service.ErrInvalidArgument -> 400 (message — причина из service.ValidationError),
//     ErrNotFound -> 404, ErrForbidden -> 403, ErrUnauthorized -> 401;
//   - отмена/дедлайн контекста -> 499/504;
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	var me *messageError
	if stderrors.As(err, &me) {
		msg = me.msg
	}

	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, service.ErrInvalidArgument):
		msg := "invalid argument"
		var ve *service.ValidationError
		if stderrors.As(err, &ve) {
			msg = ve.Reason
		}
		return http.StatusBadRequest, "invalid_argument", msg
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "Comment not found"
	case stderrors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "permission_denied", "This comment cannot be modified (no password set)"
	case stderrors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthenticated", "Invalid password"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из контекста запроса, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := logctx.RequestID(r.Context()); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
