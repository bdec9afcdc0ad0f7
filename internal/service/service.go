// service содержит бизнес-логику git-comments: лента поста, создание, правка и удаление комментариев.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/git-comments/internal/config"
	"github.com/pribylovaa/git-comments/internal/storage"
)

var (
	// ErrInvalidArgument — неверные входные параметры (пустое обязательное поле, превышен лимит).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — комментарий отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — у комментария нет пароля: изменять и удалять его нельзя.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized — пароль не совпал.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal — внутренняя ошибка (стораж/хэширование/контекст).
	ErrInternal = errors.New("internal")
)

// ValidationError — ErrInvalidArgument с причиной, которую можно показать пользователю.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason + ": " + ErrInvalidArgument.Error() }
func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// maxHashAttempts — сколько раз генерируем новый hash при коллизии.
const maxHashAttempts = 5

// Service — бизнес-логика комментариев поверх storage.Storage.
type Service struct {
	storage storage.Storage
	cfg     config.Config

	now     func() time.Time
	newHash func() string
}

// New создает новый экземпляр Service.
func New(st storage.Storage, cfg config.Config) *Service {
	return &Service{
		storage: st,
		cfg:     cfg,
		now:     time.Now,
		newHash: storage.NewHash,
	}
}
