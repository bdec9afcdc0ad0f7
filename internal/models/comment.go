// Package models содержит доменные сущности git-comments.
package models

import "time"

// DefaultAuthor — автор по умолчанию, если имя не передано.
const DefaultAuthor = "Guest"

// ShortHashLen — длина сокращённого хэша (как у `git log --oneline`).
const ShortHashLen = 7

// Comment — доменная модель комментария.
// Важно:
//   - Hash — непрозрачный идентификатор («commit hash»), уникален и неизменен;
//   - ParentHash — ссылка на корневой комментарий (один уровень ответов);
//   - UpdatedAt — нулевой, пока комментарий не редактировали;
//   - пароль хранится отдельно от тела (см. storage.Storage.PasswordHash).
type Comment struct {
	Hash       string    `json:"commit_hash" bson:"_id"`
	PostID     string    `json:"post_id" bson:"post_id"`
	Author     string    `json:"author" bson:"author"`
	Message    string    `json:"message" bson:"message"`
	ParentHash string    `json:"parent_hash,omitempty" bson:"parent_hash,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

// IsReply сообщает, что комментарий является ответом.
func (c Comment) IsReply() bool {
	return c.ParentHash != ""
}

// Edited сообщает, что комментарий редактировался.
func (c Comment) Edited() bool {
	return !c.UpdatedAt.IsZero()
}

// Thread — корневой комментарий с разрешёнными ответами.
type Thread struct {
	Root    Comment
	Replies []Comment
}

// BuildThreads группирует плоский список комментариев поста в ветки.
// Порядок корней и ответов сохраняет порядок входного списка (индекс поста, сначала новые).
// Ответы на ответы в ветки не попадают: рендерится только один уровень.
func BuildThreads(all []Comment) []Thread {
	byParent := make(map[string][]Comment)
	for _, c := range all {
		if c.IsReply() {
			byParent[c.ParentHash] = append(byParent[c.ParentHash], c)
		}
	}

	threads := make([]Thread, 0, len(all))
	for _, c := range all {
		if c.IsReply() {
			continue
		}

		replies := byParent[c.Hash]
		if replies == nil {
			replies = []Comment{}
		}

		threads = append(threads, Thread{Root: c, Replies: replies})
	}

	return threads
}
