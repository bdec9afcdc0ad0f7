package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// passwordDoc — запись пароля в отдельной коллекции.
type passwordDoc struct {
	Hash         string `bson:"_id"`
	PasswordHash string `bson:"password_hash"`
}

// commentDoc — документ коллекции comments: комментарий и его номер в ленте поста.
type commentDoc struct {
	models.Comment `bson:",inline"`
	Seq            int64 `bson:"seq"`
}

// counterDoc — последний выданный номер для поста.
type counterDoc struct {
	PostID string `bson:"_id"`
	Seq    int64  `bson:"seq"`
}

// nextSeq атомарно выдаёт следующий номер в ленте поста ($inc с upsert).
func (m *Mongo) nextSeq(ctx context.Context, postID string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := m.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: postID}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}

	return doc.Seq, nil
}

// CreateComment вставляет тело комментария и, при наличии, запись пароля.
// Дубликат _id трактуется как storage.ErrConflict (выданный seq при этом пропадает).
func (m *Mongo) CreateComment(ctx context.Context, comm models.Comment, passwordHash string) error {
	const op = "storage/mongo/CreateComment"

	storage.NormalizeTimes(&comm)

	seq, err := m.nextSeq(ctx, comm.PostID)
	if err != nil {
		return fmt.Errorf("%s: next seq: %w", op, err)
	}

	if _, err := m.comments.InsertOne(ctx, commentDoc{Comment: comm, Seq: seq}); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	if passwordHash == "" {
		return nil
	}

	if _, err := m.passwords.InsertOne(ctx, passwordDoc{Hash: comm.Hash, PasswordHash: passwordHash}); err != nil {
		// Без записи пароля комментарий стал бы навсегда read-only: откатываем тело.
		_, _ = m.comments.DeleteOne(context.WithoutCancel(ctx), bson.D{{Key: "_id", Value: comm.Hash}})
		return fmt.Errorf("%s: insert password: %w", op, err)
	}

	return nil
}

// CommentByID возвращает комментарий по hash.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) CommentByID(ctx context.Context, hash string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	var out models.Comment
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: hash}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storage.NormalizeTimes(&out)
	return &out, nil
}

// ListByPost возвращает все комментарии поста.
// Сортировка: seq DESC, т.е. порядок вставки, новые первыми (эквивалент LPUSH-индекса).
func (m *Mongo) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	const op = "storage/mongo/ListByPost"

	findOpts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}})

	cur, err := m.comments.Find(ctx, bson.D{{Key: "post_id", Value: postID}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Comment, 0)
	for cur.Next(ctx) {
		var comm models.Comment
		if err := cur.Decode(&comm); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		storage.NormalizeTimes(&comm)
		items = append(items, comm)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// UpdateMessage перезаписывает текст и updated_at.
// При отсутствии записи — storage.ErrNotFound.
func (m *Mongo) UpdateMessage(ctx context.Context, hash, message string, updatedAt time.Time) error {
	const op = "storage/mongo/UpdateMessage"

	res, err := m.comments.UpdateByID(ctx, hash, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "message", Value: message},
			{Key: "updated_at", Value: updatedAt.UTC().Truncate(time.Millisecond)},
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteComment удаляет тело и запись пароля. Ответы не трогаются.
func (m *Mongo) DeleteComment(ctx context.Context, _ string, hash string) error {
	const op = "storage/mongo/DeleteComment"

	if _, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: hash}}); err != nil {
		return fmt.Errorf("%s: comment: %w", op, err)
	}

	if _, err := m.passwords.DeleteOne(ctx, bson.D{{Key: "_id", Value: hash}}); err != nil {
		return fmt.Errorf("%s: password: %w", op, err)
	}

	return nil
}

// PasswordHash возвращает bcrypt-хэш пароля комментария.
// Если записи нет — storage.ErrNotFound.
func (m *Mongo) PasswordHash(ctx context.Context, hash string) (string, error) {
	const op = "storage/mongo/PasswordHash"

	var doc passwordDoc
	if err := m.passwords.FindOne(ctx, bson.D{{Key: "_id", Value: hash}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return doc.PasswordHash, nil
}

var _ storage.Storage = (*Mongo)(nil)
