package models

// Контракт HTTP API (JSON). Используется и сервером, и клиентом терминала.

// ReplyEntry — ответ внутри элемента `git log`.
type ReplyEntry struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// LogEntry — корневой элемент `git log` с ответами.
type LogEntry struct {
	Hash    string       `json:"hash"`
	Author  string       `json:"author"`
	Date    string       `json:"date"`
	Message string       `json:"message"`
	Replies []ReplyEntry `json:"replies"`
}

// GitLogResponse — ответ GET /comments?post_id=.
type GitLogResponse struct {
	Commits []LogEntry `json:"commits"`
}

// CommentResponse — ответ GET /comments/{hash}.
type CommentResponse struct {
	Hash       string `json:"hash"`
	PostID     string `json:"post_id"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	Message    string `json:"message"`
	ParentHash string `json:"parent_hash,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// CreateCommentRequest — тело POST /comments.
type CreateCommentRequest struct {
	PostID     string `json:"post_id"`
	Author     string `json:"author,omitempty"`
	Password   string `json:"password,omitempty"`
	Message    string `json:"message"`
	ParentHash string `json:"parent_hash,omitempty"`
}

// CreateCommentResponse — ответ 201 на POST /comments.
type CreateCommentResponse struct {
	CommitHash string `json:"commit_hash"`
	Author     string `json:"author"`
	Message    string `json:"message"`
}

// UpdateCommentRequest — тело PUT /comments.
type UpdateCommentRequest struct {
	CommitHash string `json:"commit_hash"`
	Password   string `json:"password"`
	Message    string `json:"message"`
}

// DeleteCommentRequest — тело DELETE /comments.
type DeleteCommentRequest struct {
	CommitHash string `json:"commit_hash"`
	Password   string `json:"password"`
}

// MessageResponse — ответ 200 на PUT/DELETE.
type MessageResponse struct {
	Message string `json:"message"`
}
