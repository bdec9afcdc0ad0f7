package models

import "time"

// DateLayout — формат дат в JSON API (ISO-8601, миллисекунды, UTC).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate форматирует время для API.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate разбирает дату API. Принимает и RFC3339 без миллисекунд.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// GitLogFromThreads собирает ответ GET /comments.
// Commits и Replies всегда не nil, чтобы в JSON уходил [] вместо null.
func GitLogFromThreads(threads []Thread) GitLogResponse {
	commits := make([]LogEntry, 0, len(threads))
	for _, th := range threads {
		replies := make([]ReplyEntry, 0, len(th.Replies))
		for _, r := range th.Replies {
			replies = append(replies, ReplyEntry{
				Hash:    r.Hash,
				Author:  r.Author,
				Date:    FormatDate(r.CreatedAt),
				Message: r.Message,
			})
		}

		commits = append(commits, LogEntry{
			Hash:    th.Root.Hash,
			Author:  th.Root.Author,
			Date:    FormatDate(th.Root.CreatedAt),
			Message: th.Root.Message,
			Replies: replies,
		})
	}

	return GitLogResponse{Commits: commits}
}

// CommentResponseFromComment конвертирует комментарий в ответ GET /comments/{hash}.
func CommentResponseFromComment(c Comment) CommentResponse {
	out := CommentResponse{
		Hash:       c.Hash,
		PostID:     c.PostID,
		Author:     c.Author,
		Date:       FormatDate(c.CreatedAt),
		Message:    c.Message,
		ParentHash: c.ParentHash,
	}

	if c.Edited() {
		out.UpdatedAt = FormatDate(c.UpdatedAt)
	}

	return out
}
