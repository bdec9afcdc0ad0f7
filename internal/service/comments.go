package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/storage"
	"github.com/pribylovaa/git-comments/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

// Входные структуры сервисного слоя.

// CreateCommentInput — создание корневого комментария или ответа.
// Пустой Author заменяется на models.DefaultAuthor; пустой Password
// делает комментарий доступным только для чтения.
type CreateCommentInput struct {
	PostID     string
	Author     string
	Password   string
	Message    string
	ParentHash string
}

// UpdateCommentInput — правка текста комментария.
type UpdateCommentInput struct {
	Hash     string
	Password string
	Message  string
}

// DeleteCommentInput — удаление комментария.
type DeleteCommentInput struct {
	Hash     string
	Password string
}

// ListThreads — лента поста: корни в порядке индекса, у каждого ответы в порядке индекса.
//
// Ошибки:
//   - ErrInvalidArgument — пустой postID;
//   - ErrInternal — ошибки стораджа.
func (s *Service) ListThreads(ctx context.Context, postID string) ([]models.Thread, error) {
	const op = "service/comments/ListThreads"

	postID = strings.TrimSpace(postID)
	lg := log.From(ctx).With("op", op, "post_id", postID)

	if postID == "" {
		lg.Warn("invalid argument: empty post_id")
		return nil, fmt.Errorf("%s: %w", op, invalid("post_id is required"))
	}

	all, err := s.storage.ListByPost(ctx, postID)
	if err != nil {
		lg.Error("storage error on ListByPost", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return models.BuildThreads(all), nil
}

// CreateComment — бизнес-операция создания комментария.
//
// Валидация:
//   - PostID и Message (после TrimSpace) обязательны;
//   - длины Message/Author ограничены cfg.Limits.
//
// Существование родителя не проверяется: ссылка на несуществующий
// родитель или на ответ только логируется.
// При коллизии hash генерируется заново (до maxHashAttempts раз).
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	in.PostID = strings.TrimSpace(in.PostID)
	in.ParentHash = strings.TrimSpace(in.ParentHash)
	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "parent_hash", in.ParentHash)

	if in.PostID == "" {
		lg.Warn("invalid argument: empty post_id")
		return nil, fmt.Errorf("%s: %w", op, invalid("post_id is required"))
	}

	message, err := s.normalizeMessage(in.Message)
	if err != nil {
		lg.Warn("invalid argument: message", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = models.DefaultAuthor
	}

	if limit := s.cfg.Limits.AuthorMax; limit > 0 && utf8.RuneCountInString(author) > limit {
		lg.Warn("invalid argument: author too long")
		return nil, fmt.Errorf("%s: %w", op, invalid("Author is too long (max %d characters)", limit))
	}

	if in.ParentHash != "" {
		s.checkParent(ctx, lg, in.ParentHash)
	}

	var passwordHash string
	if in.Password != "" {
		passwordHash, err = s.hashPassword(in.Password)
		if err != nil {
			lg.Error("password hashing failed", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	comm := models.Comment{
		PostID:     in.PostID,
		Author:     author,
		Message:    message,
		ParentHash: in.ParentHash,
		CreatedAt:  s.now(),
	}
	storage.NormalizeTimes(&comm)

	for attempt := 1; attempt <= maxHashAttempts; attempt++ {
		comm.Hash = s.newHash()

		err = s.storage.CreateComment(ctx, comm, passwordHash)
		if err == nil {
			lg.Info("comment_created", "hash", comm.Hash, "protected", passwordHash != "")
			return &comm, nil
		}

		if !errors.Is(err, storage.ErrConflict) {
			lg.Error("storage error on CreateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		lg.Warn("hash collision, retrying", "hash", comm.Hash, "attempt", attempt)
	}

	lg.Error("hash collisions exhausted", "attempts", maxHashAttempts)
	return nil, fmt.Errorf("%s: %w", op, ErrInternal)
}

// CommentByID — получить комментарий по точному hash.
//
// Ошибки:
//   - ErrInvalidArgument — пустой hash;
//   - ErrNotFound — комментарий не найден;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) CommentByID(ctx context.Context, hash string) (*models.Comment, error) {
	const op = "service/comments/CommentByID"

	hash = strings.TrimSpace(hash)
	lg := log.From(ctx).With("op", op, "hash", hash)

	if hash == "" {
		lg.Warn("invalid argument: empty hash")
		return nil, fmt.Errorf("%s: %w", op, invalid("commit_hash is required"))
	}

	comm, err := s.storage.CommentByID(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on CommentByID", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return comm, nil
}

// UpdateComment — перезапись текста с проверкой пароля.
//
// Порядок проверок: ErrInvalidArgument -> ErrNotFound -> ErrForbidden (нет пароля)
// -> ErrUnauthorized (пароль не совпал).
func (s *Service) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	in.Hash = strings.TrimSpace(in.Hash)
	lg := log.From(ctx).With("op", op, "hash", in.Hash)

	if in.Hash == "" {
		lg.Warn("invalid argument: empty hash")
		return nil, fmt.Errorf("%s: %w", op, invalid("commit_hash is required"))
	}

	message, err := s.normalizeMessage(in.Message)
	if err != nil {
		lg.Warn("invalid argument: message", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comm, err := s.authorize(ctx, lg, in.Hash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updatedAt := s.now()
	if err := s.storage.UpdateMessage(ctx, in.Hash, message, updatedAt); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment vanished before update")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on UpdateMessage", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	comm.Message = message
	comm.UpdatedAt = updatedAt
	storage.NormalizeTimes(comm)

	lg.Info("comment_updated")
	return comm, nil
}

// DeleteComment — удаление комментария с проверкой пароля.
// Ответы не удаляются каскадно: они остаются в хранилище, но не попадают в ленту.
func (s *Service) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	const op = "service/comments/DeleteComment"

	in.Hash = strings.TrimSpace(in.Hash)
	lg := log.From(ctx).With("op", op, "hash", in.Hash)

	if in.Hash == "" {
		lg.Warn("invalid argument: empty hash")
		return fmt.Errorf("%s: %w", op, invalid("commit_hash is required"))
	}

	comm, err := s.authorize(ctx, lg, in.Hash, in.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteComment(ctx, comm.PostID, comm.Hash); err != nil {
		lg.Error("storage error on DeleteComment", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("comment_deleted", "post_id", comm.PostID)
	return nil
}

// authorize загружает комментарий и сверяет пароль с сохранённым bcrypt-хэшем.
// Запоминаемые клиентом пароли здесь не участвуют: источник истины только хранилище.
func (s *Service) authorize(ctx context.Context, lg *slog.Logger, hash, password string) (*models.Comment, error) {
	comm, err := s.storage.CommentByID(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not found")
			return nil, ErrNotFound
		}

		lg.Error("storage error on CommentByID", "err", err)
		return nil, ErrInternal
	}

	stored, err := s.storage.PasswordHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment has no password")
			return nil, ErrForbidden
		}

		lg.Error("storage error on PasswordHash", "err", err)
		return nil, ErrInternal
	}

	if !checkPassword(stored, password) {
		lg.Warn("password mismatch")
		return nil, ErrUnauthorized
	}

	return comm, nil
}

// checkParent логирует подозрительные ссылки на родителя; создание не блокируется.
func (s *Service) checkParent(ctx context.Context, lg *slog.Logger, parentHash string) {
	parent, err := s.storage.CommentByID(ctx, parentHash)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("parent not found, reply will not be listed")
	case err != nil:
		lg.Warn("parent lookup failed", "err", err)
	case parent.IsReply():
		lg.Warn("parent is a reply, reply will not be listed")
	}
}

// normalizeMessage обрезает пробелы и проверяет непустоту и лимит длины (0 — без лимита).
func (s *Service) normalizeMessage(raw string) (string, error) {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return "", invalid("Message cannot be empty")
	}

	if limit := s.cfg.Limits.MessageMax; limit > 0 && utf8.RuneCountInString(msg) > limit {
		return "", invalid("Message is too long (max %d characters)", limit)
	}

	return msg, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service/comments/hashPassword"

	cost := s.cfg.Security.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
