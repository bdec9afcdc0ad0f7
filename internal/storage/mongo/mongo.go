package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/git-comments/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	commentsCollection  = "comments"
	passwordsCollection = "passwords"
	countersCollection  = "counters"
	defaultDBName       = "git_comments"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
// Тело комментария и запись пароля живут в разных коллекциях с общим _id = hash.
// counters хранит последовательность вставок по посту (порядок ленты).
type Mongo struct {
	client    *mongodriver.Client
	db        *mongodriver.Database
	comments  *mongodriver.Collection
	passwords *mongodriver.Collection
	counters  *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.Storage.MongoURL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.Storage.MongoURL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.Storage.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.Storage.MongoURL))
	prefix := strings.TrimRight(cfg.Storage.KeyPrefix, ":")
	if prefix != "" {
		prefix += "_"
	}

	m := &Mongo{
		client:    cli,
		db:        db,
		comments:  db.Collection(prefix + commentsCollection),
		passwords: db.Collection(prefix + passwordsCollection),
		counters:  db.Collection(prefix + countersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создает индекс ленты поста: post_id + seq(desc).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.comments.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "seq", Value: -1}},
		Options: options.Index().SetName("post_seq_desc"),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
