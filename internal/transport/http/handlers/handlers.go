package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/git-comments/internal/metrics"
	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/service"
	apierrors "github.com/pribylovaa/git-comments/internal/transport/http/errors"
)

// CommentService — бизнес-операции, которые нужны HTTP-слою.
type CommentService interface {
	ListThreads(ctx context.Context, postID string) ([]models.Thread, error)
	CommentByID(ctx context.Context, hash string) (*models.Comment, error)
	CreateComment(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, in service.UpdateCommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, in service.DeleteCommentInput) error
}

// Handlers агрегирует зависимости REST-эндпойнтов.
type Handlers struct {
	svc     CommentService
	metrics *metrics.Metrics
}

// New создаёт Handlers. m может быть nil.
func New(svc CommentService, m *metrics.Metrics) *Handlers {
	return &Handlers{svc: svc, metrics: m}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
// Ошибка разбора уходит клиенту как 400 с общим текстом, без деталей декодера.
func decodeStrict(r *http.Request, value any) error {
	if r.Body == nil {
		return apierrors.WithMessage(fmt.Errorf("empty body: %w", service.ErrInvalidArgument), "Request body is required")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return apierrors.WithMessage(fmt.Errorf("decode body: %v: %w", err, service.ErrInvalidArgument), "Invalid JSON body")
	}

	return nil
}

// fail пишет ошибку и учитывает её в метрике операции.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	_, resp := apierrors.ToHTTP(err)
	h.metrics.ObserveOp(op, resp.Error.Code)
	apierrors.WriteError(w, r, err)
}
