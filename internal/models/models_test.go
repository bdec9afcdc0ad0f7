package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildThreads(t *testing.T) {
	all := []Comment{
		{Hash: "r2"},
		{Hash: "c3", ParentHash: "r1"},
		{Hash: "c2", ParentHash: "gone"},
		{Hash: "r1"},
		{Hash: "c1", ParentHash: "r1"},
		{Hash: "cc", ParentHash: "c1"},
	}

	threads := BuildThreads(all)
	require.Len(t, threads, 2)

	require.Equal(t, "r2", threads[0].Root.Hash)
	require.NotNil(t, threads[0].Replies)
	require.Empty(t, threads[0].Replies)

	require.Equal(t, "r1", threads[1].Root.Hash)
	require.Len(t, threads[1].Replies, 2)
	require.Equal(t, "c3", threads[1].Replies[0].Hash)
	require.Equal(t, "c1", threads[1].Replies[1].Hash)
}

func TestBuildThreads_Empty(t *testing.T) {
	threads := BuildThreads(nil)
	require.NotNil(t, threads)
	require.Empty(t, threads)
}

func TestGitLogFromThreads_JSONShape(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 123_000_000, time.UTC)
	threads := []Thread{
		{Root: Comment{Hash: "aaaaaaaa", Author: "Ann", Message: "hi", CreatedAt: at}, Replies: []Comment{}},
		{Root: Comment{Hash: "bbbbbbbb", Author: "Bob", Message: "yo", CreatedAt: at}, Replies: []Comment{
			{Hash: "cccccccc", Author: "Guest", Message: "re", ParentHash: "bbbbbbbb", CreatedAt: at},
		}},
	}

	raw, err := json.Marshal(GitLogFromThreads(threads))
	require.NoError(t, err)
	require.JSONEq(t, `{"commits":[
		{"hash":"aaaaaaaa","author":"Ann","date":"2025-01-02T03:04:05.123Z","message":"hi","replies":[]},
		{"hash":"bbbbbbbb","author":"Bob","date":"2025-01-02T03:04:05.123Z","message":"yo","replies":[
			{"hash":"cccccccc","author":"Guest","date":"2025-01-02T03:04:05.123Z","message":"re"}
		]}
	]}`, string(raw))

	raw, err = json.Marshal(GitLogFromThreads(nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"commits":[]}`, string(raw))
}

func TestCommentResponseFromComment(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Comment{Hash: "aaaaaaaa", PostID: "p1", Author: "Ann", Message: "hi", CreatedAt: at}

	out := CommentResponseFromComment(c)
	require.Equal(t, "2025-01-02T03:04:05.000Z", out.Date)
	require.Empty(t, out.UpdatedAt)
	require.Empty(t, out.ParentHash)

	c.UpdatedAt = at.Add(time.Minute)
	c.ParentHash = "root0001"
	out = CommentResponseFromComment(c)
	require.Equal(t, "2025-01-02T03:05:05.000Z", out.UpdatedAt)
	require.Equal(t, "root0001", out.ParentHash)
}

func TestParseDate_RoundTrip(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 123_000_000, time.UTC)
	got, err := ParseDate(FormatDate(at))
	require.NoError(t, err)
	require.True(t, at.Equal(got))

	_, err = ParseDate("yesterday")
	require.Error(t, err)
}
