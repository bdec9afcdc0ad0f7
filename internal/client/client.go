// client — HTTP-клиент API комментариев для терминала.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/git-comments/internal/models"
)

var (
	// ErrInvalidArgument — сервер отклонил запрос как некорректный (400).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — комментарий не найден (404).
	ErrNotFound = errors.New("not found")
	// ErrForbidden — у комментария нет пароля (403).
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized — неверный пароль (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal — 5xx или неразборчивый ответ.
	ErrInternal = errors.New("internal")
)

// APIError — ошибка ответа сервера. Message — текст из конверта ошибки.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string

	kind error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.kind }

// Client — тонкая обёртка над REST API.
type Client struct {
	base string
	http *http.Client
}

// New создаёт клиент. hc == nil -> клиент с таймаутом 10s.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// Comments — GET /comments?post_id=.
func (c *Client) Comments(ctx context.Context, postID string) (*models.GitLogResponse, error) {
	var out models.GitLogResponse
	q := url.Values{"post_id": {postID}}
	if err := c.do(ctx, http.MethodGet, "/comments?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Comment — GET /comments/{hash}.
func (c *Client) Comment(ctx context.Context, hash string) (*models.CommentResponse, error) {
	var out models.CommentResponse
	if err := c.do(ctx, http.MethodGet, "/comments/"+url.PathEscape(hash), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Create — POST /comments.
func (c *Client) Create(ctx context.Context, in models.CreateCommentRequest) (*models.CreateCommentResponse, error) {
	var out models.CreateCommentResponse
	if err := c.do(ctx, http.MethodPost, "/comments", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Update — PUT /comments.
func (c *Client) Update(ctx context.Context, in models.UpdateCommentRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodPut, "/comments", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Delete — DELETE /comments.
func (c *Client) Delete(ctx context.Context, in models.DeleteCommentRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/comments", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	const op = "client/do"

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s %s: %w", op, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}

	return nil
}

// errorEnvelope — {"error":{"code","message","request_id"}}.
type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func decodeError(resp *http.Response, raw []byte) error {
	apiErr := &APIError{
		Status: resp.StatusCode,
		kind:   kindFromStatus(resp.StatusCode),
	}

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.RequestID = env.Error.RequestID
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

func kindFromStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return ErrInternal
	}
}
