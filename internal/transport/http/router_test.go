package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/git-comments/internal/config"
	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/service"
	"github.com/pribylovaa/git-comments/internal/storage/memory"
	apierrors "github.com/pribylovaa/git-comments/internal/transport/http/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer поднимает полный стек: chi -> service -> memory storage.
func newTestServer(t *testing.T, basePath string) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		Limits:   config.LimitsConfig{MessageMax: 2000, AuthorMax: 64},
	}
	svc := service.New(memory.New(), cfg)

	h := NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: basePath,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeErr(t *testing.T, raw []byte) apierrors.APIError {
	t.Helper()
	var env apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &env))
	return env.Error
}

func create(t *testing.T, base string, in models.CreateCommentRequest) models.CreateCommentResponse {
	t.Helper()
	resp, raw := do(t, http.MethodPost, base+"/comments", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var out models.CreateCommentResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRouter_CreateListShow(t *testing.T) {
	srv := newTestServer(t, "")

	root := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Author: "Ann", Password: "x", Message: "hello"})
	require.Len(t, root.CommitHash, 8)
	require.Equal(t, "Ann", root.Author)
	require.Equal(t, "[comment "+root.CommitHash+"] hello", root.Message)

	guest := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Message: "anon"})
	require.Equal(t, models.DefaultAuthor, guest.Author)

	reply := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Message: "re", ParentHash: root.CommitHash})

	resp, raw := do(t, http.MethodGet, srv.URL+"/comments?post_id=p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var log models.GitLogResponse
	require.NoError(t, json.Unmarshal(raw, &log))
	require.Len(t, log.Commits, 2)
	require.Equal(t, guest.CommitHash, log.Commits[0].Hash)
	require.Empty(t, log.Commits[0].Replies)
	require.Equal(t, root.CommitHash, log.Commits[1].Hash)
	require.Len(t, log.Commits[1].Replies, 1)
	require.Equal(t, reply.CommitHash, log.Commits[1].Replies[0].Hash)

	resp, raw = do(t, http.MethodGet, srv.URL+"/comments/"+root.CommitHash, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var show models.CommentResponse
	require.NoError(t, json.Unmarshal(raw, &show))
	require.Equal(t, root.CommitHash, show.Hash)
	require.Equal(t, "Ann", show.Author)
	require.Equal(t, "hello", show.Message)
	require.Equal(t, "p1", show.PostID)
	require.Empty(t, show.UpdatedAt)

	resp, raw = do(t, http.MethodGet, srv.URL+"/comments/nothere1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Comment not found", decodeErr(t, raw).Message)
}

func TestRouter_EmptyPostListsEmptyArray(t *testing.T) {
	srv := newTestServer(t, "")

	resp, raw := do(t, http.MethodGet, srv.URL+"/comments?post_id=nobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"commits":[]}`, string(raw))

	resp, _ = do(t, http.MethodGet, srv.URL+"/comments", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_CreateValidation(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"blank message", models.CreateCommentRequest{PostID: "p1", Message: "   "}, "Message cannot be empty"},
		{"long message", models.CreateCommentRequest{PostID: "p1", Message: strings.Repeat("x", 2001)}, "Message is too long (max 2000 characters)"},
		{"long author", models.CreateCommentRequest{PostID: "p1", Author: strings.Repeat("a", 65), Message: "m"}, "Author is too long (max 64 characters)"},
		{"no post", models.CreateCommentRequest{Message: "m"}, "post_id is required"},
		{"unknown field", map[string]any{"post_id": "p1", "message": "m", "extra": 1}, "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, http.MethodPost, srv.URL+"/comments", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			apiErr := decodeErr(t, raw)
			require.Equal(t, "invalid_argument", apiErr.Code)
			require.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestRouter_UpdateTaxonomy(t *testing.T) {
	srv := newTestServer(t, "")

	protected := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Password: "secret", Message: "v1"})
	open := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Message: "ro"})

	resp, raw := do(t, http.MethodPut, srv.URL+"/comments", models.UpdateCommentRequest{CommitHash: "nothere1", Password: "x", Message: "m"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = do(t, http.MethodPut, srv.URL+"/comments", models.UpdateCommentRequest{CommitHash: open.CommitHash, Password: "x", Message: "m"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "This comment cannot be edited (no password set)", decodeErr(t, raw).Message)

	resp, raw = do(t, http.MethodPut, srv.URL+"/comments", models.UpdateCommentRequest{CommitHash: protected.CommitHash, Password: "wrong", Message: "m"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid password", decodeErr(t, raw).Message)

	resp, raw = do(t, http.MethodPut, srv.URL+"/comments", models.UpdateCommentRequest{CommitHash: protected.CommitHash, Password: "secret", Message: "v2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg models.MessageResponse
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, "["+protected.CommitHash+"] Comment updated successfully", msg.Message)

	resp, raw = do(t, http.MethodGet, srv.URL+"/comments/"+protected.CommitHash, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var show models.CommentResponse
	require.NoError(t, json.Unmarshal(raw, &show))
	require.Equal(t, "v2", show.Message)
	require.NotEmpty(t, show.UpdatedAt)
}

func TestRouter_DeleteTaxonomyAndOrphans(t *testing.T) {
	srv := newTestServer(t, "")

	root := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Password: "secret", Message: "root"})
	create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Message: "reply", ParentHash: root.CommitHash})
	open := create(t, srv.URL, models.CreateCommentRequest{PostID: "p1", Message: "ro"})

	resp, raw := do(t, http.MethodDelete, srv.URL+"/comments", models.DeleteCommentRequest{CommitHash: open.CommitHash, Password: ""})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "This comment cannot be deleted (no password set)", decodeErr(t, raw).Message)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/comments", models.DeleteCommentRequest{CommitHash: root.CommitHash, Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = do(t, http.MethodDelete, srv.URL+"/comments", models.DeleteCommentRequest{CommitHash: root.CommitHash, Password: "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg models.MessageResponse
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, "Comment "+root.CommitHash+" deleted.", msg.Message)

	resp, raw = do(t, http.MethodGet, srv.URL+"/comments?post_id=p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var log models.GitLogResponse
	require.NoError(t, json.Unmarshal(raw, &log))
	require.Len(t, log.Commits, 1)
	require.Equal(t, open.CommitHash, log.Commits[0].Hash)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/comments", models.DeleteCommentRequest{CommitHash: root.CommitHash, Password: "secret"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_PreflightAndBasePath(t *testing.T) {
	srv := newTestServer(t, "/api")

	resp, _ := do(t, http.MethodOptions, srv.URL+"/api/comments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = do(t, http.MethodOptions, srv.URL+"/api/comments/abcdef12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := create(t, srv.URL+"/api", models.CreateCommentRequest{PostID: "p1", Message: "hi"})
	require.True(t, strings.HasPrefix(out.Message, "[comment "))

	resp, _ = do(t, http.MethodGet, srv.URL+"/comments?post_id=p1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ErrorCarriesRequestID(t *testing.T) {
	srv := newTestServer(t, "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/comments/nothere1", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "rid-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, "rid-42", resp.Header.Get("X-Request-Id"))
	require.Equal(t, "rid-42", decodeErr(t, raw).RequestID)
}

func TestRouter_MalformedRequestIDIsReplaced(t *testing.T) {
	srv := newTestServer(t, "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/comments/nothere1", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "forged id\tinjected")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	rid := resp.Header.Get("X-Request-Id")
	require.Len(t, rid, 32)
	require.Equal(t, rid, decodeErr(t, raw).RequestID)
}
