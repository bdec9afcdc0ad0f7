package terminal

import (
	"strings"
	"time"

	"github.com/pribylovaa/git-comments/internal/models"
)

// gitDateLayout — формат даты как в `git log`.
const gitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func formatDate(raw string, loc *time.Location) string {
	t, err := models.ParseDate(raw)
	if err != nil {
		return raw
	}

	return t.In(loc).Format(gitDateLayout)
}

func renderLog(commits []models.LogEntry, oneline bool, loc *time.Location) []string {
	if len(commits) == 0 {
		return []string{"No comments yet."}
	}

	var out []string

	for _, c := range commits {
		if oneline {
			out = append(out, c.Hash+" "+c.Message)
			continue
		}

		out = append(out,
			"commit "+c.Hash,
			"Author: "+c.Author,
			"Date:   "+formatDate(c.Date, loc),
			"",
			"    "+c.Message,
			"",
		)

		for _, r := range c.Replies {
			out = append(out,
				"  └─ commit "+r.Hash,
				"     Author: "+r.Author,
				"     Date:   "+formatDate(r.Date, loc),
				"",
				"         "+r.Message,
				"",
			)
		}
	}

	return out
}

func renderShow(c models.CommentResponse, loc *time.Location) []string {
	out := []string{"commit " + c.Hash}

	if c.ParentHash != "" {
		out = append(out, "Fixup:  "+c.ParentHash)
	}

	out = append(out,
		"Author: "+c.Author,
		"Date:   "+formatDate(c.Date, loc),
	)

	if c.UpdatedAt != "" {
		out = append(out, "Edited: "+formatDate(c.UpdatedAt, loc))
	}

	return append(out, "", "    "+c.Message, "")
}

func renderReflog(hashes []string, commits []models.LogEntry) []string {
	var out []string

	for _, h := range hashes {
		if e, ok := findExact(commits, h); ok {
			out = append(out, h+" "+e.Author+": "+e.Message)
		}
	}

	return out
}

// flatten — корни и ответы одним списком в порядке вывода.
func flatten(commits []models.LogEntry) []models.ReplyEntry {
	var all []models.ReplyEntry

	for _, c := range commits {
		all = append(all, models.ReplyEntry{Hash: c.Hash, Author: c.Author, Date: c.Date, Message: c.Message})
		all = append(all, c.Replies...)
	}

	return all
}

func findExact(commits []models.LogEntry, hash string) (models.ReplyEntry, bool) {
	for _, e := range flatten(commits) {
		if e.Hash == hash {
			return e, true
		}
	}

	return models.ReplyEntry{}, false
}

func findByPrefix(commits []models.LogEntry, prefix string) (models.ReplyEntry, bool) {
	for _, e := range flatten(commits) {
		if strings.HasPrefix(e.Hash, prefix) {
			return e, true
		}
	}

	return models.ReplyEntry{}, false
}
