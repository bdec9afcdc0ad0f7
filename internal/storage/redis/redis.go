// redis — хранилище комментариев поверх Redis.
//
// Раскладка ключей (prefix опционален):
//
//	<prefix>comments:<post_id>  LIST   hash комментариев поста, новые в начале (LPUSH);
//	<prefix>comment:<hash>      STRING JSON тела комментария;
//	<prefix>password:<hash>     STRING bcrypt-хэш пароля (отсутствует — только чтение).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

// Redis — адаптер storage.Storage для Redis.
type Redis struct {
	rdb    *goredis.Client
	prefix string
}

var _ storage.Storage = (*Redis)(nil)

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0) и проверяет соединение.
func New(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis: empty url")
	}

	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}

	rdb := goredis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) indexKey(postID string) string { return r.prefix + "comments:" + postID }
func (r *Redis) bodyKey(hash string) string    { return r.prefix + "comment:" + hash }
func (r *Redis) passwordKey(hash string) string {
	return r.prefix + "password:" + hash
}

func (r *Redis) CreateComment(ctx context.Context, comm models.Comment, passwordHash string) error {
	const op = "storage/redis/CreateComment"

	storage.NormalizeTimes(&comm)

	body, err := json.Marshal(comm)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	// SETNX резервирует hash: второй писатель с тем же hash получает конфликт.
	ok, err := r.rdb.SetNX(ctx, r.bodyKey(comm.Hash), body, 0).Result()
	if err != nil {
		return fmt.Errorf("%s: setnx: %w", op, err)
	}

	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	pipe := r.rdb.TxPipeline()
	if passwordHash != "" {
		pipe.Set(ctx, r.passwordKey(comm.Hash), passwordHash, 0)
	}
	pipe.LPush(ctx, r.indexKey(comm.PostID), comm.Hash)

	if _, err := pipe.Exec(ctx); err != nil {
		_ = r.rdb.Del(context.WithoutCancel(ctx), r.bodyKey(comm.Hash)).Err()
		return fmt.Errorf("%s: index: %w", op, err)
	}

	return nil
}

func (r *Redis) CommentByID(ctx context.Context, hash string) (*models.Comment, error) {
	const op = "storage/redis/CommentByID"

	raw, err := r.rdb.Get(ctx, r.bodyKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out models.Comment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return &out, nil
}

func (r *Redis) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	const op = "storage/redis/ListByPost"

	hashes, err := r.rdb.LRange(ctx, r.indexKey(postID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: lrange: %w", op, err)
	}

	out := make([]models.Comment, 0, len(hashes))
	if len(hashes) == 0 {
		return out, nil
	}

	keys := make([]string, len(hashes))
	for i, h := range hashes {
		keys[i] = r.bodyKey(h)
	}

	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: mget: %w", op, err)
	}

	for _, v := range vals {
		// Осиротевшая запись индекса: тело уже удалено.
		s, ok := v.(string)
		if !ok {
			continue
		}

		var comm models.Comment
		if err := json.Unmarshal([]byte(s), &comm); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out = append(out, comm)
	}

	return out, nil
}

func (r *Redis) UpdateMessage(ctx context.Context, hash, message string, updatedAt time.Time) error {
	const op = "storage/redis/UpdateMessage"

	comm, err := r.CommentByID(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	comm.Message = message
	comm.UpdatedAt = updatedAt
	storage.NormalizeTimes(comm)

	body, err := json.Marshal(comm)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	// XX: не воскрешаем тело, удалённое между чтением и записью.
	ok, err := r.rdb.SetXX(ctx, r.bodyKey(hash), body, goredis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("%s: set: %w", op, err)
	}

	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (r *Redis) DeleteComment(ctx context.Context, postID, hash string) error {
	const op = "storage/redis/DeleteComment"

	if err := r.rdb.LRem(ctx, r.indexKey(postID), 0, hash).Err(); err != nil {
		return fmt.Errorf("%s: lrem: %w", op, err)
	}

	if err := r.rdb.Del(ctx, r.bodyKey(hash), r.passwordKey(hash)).Err(); err != nil {
		return fmt.Errorf("%s: del: %w", op, err)
	}

	return nil
}

func (r *Redis) PasswordHash(ctx context.Context, hash string) (string, error) {
	const op = "storage/redis/PasswordHash"

	ph, err := r.rdb.Get(ctx, r.passwordKey(hash)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ph, nil
}

// Close закрывает клиент Redis.
func (r *Redis) Close(context.Context) error { return r.rdb.Close() }
