package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/git-comments/internal/models"
)

var (
	// ErrNotFound — сущность (тело комментария или запись пароля) отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — сгенерированный хэш уже занят.
	ErrConflict = errors.New("conflict")
)

// HashLen — длина генерируемого commit hash (hex).
const HashLen = 8

// Storage описывает операции над комментариями поверх key-value хранилища.
type Storage interface {
	// CreateComment сохраняет тело комментария, добавляет hash в начало индекса поста
	// и, если passwordHash не пуст, сохраняет запись пароля отдельно от тела.
	// Hash во входном Comment должен быть уже сгенерирован (см. NewHash).
	// Если hash занят — ErrConflict (вызывающий генерирует новый и повторяет).
	CreateComment(ctx context.Context, comment models.Comment, passwordHash string) error

	// CommentByID возвращает комментарий по hash.
	// Если запись не найдена — ErrNotFound.
	CommentByID(ctx context.Context, hash string) (*models.Comment, error)

	// ListByPost возвращает все комментарии поста в порядке индекса (сначала новые).
	// Осиротевшие записи индекса (без тела) пропускаются.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)

	// UpdateMessage перезаписывает текст и выставляет updated_at.
	// Если запись не найдена — ErrNotFound.
	UpdateMessage(ctx context.Context, hash, message string, updatedAt time.Time) error

	// DeleteComment удаляет hash из индекса поста, затем тело и запись пароля.
	// Каскадного удаления ответов нет.
	DeleteComment(ctx context.Context, postID, hash string) error

	// PasswordHash возвращает сохранённый хэш пароля.
	// Если записи нет (комментарий только для чтения) — ErrNotFound.
	PasswordHash(ctx context.Context, hash string) (string, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

// NewHash генерирует непрозрачный commit hash: первые HashLen hex-символов UUIDv4.
func NewHash() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:HashLen]
}

// NormalizeTimes приводит временные поля к UTC с точностью до миллисекунд
// (минимальная общая точность драйверов).
func NormalizeTimes(c *models.Comment) {
	c.CreatedAt = c.CreatedAt.UTC().Truncate(time.Millisecond)
	if !c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.UpdatedAt.UTC().Truncate(time.Millisecond)
	}
}
