package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/service"
	apierrors "github.com/pribylovaa/git-comments/internal/transport/http/errors"
)

// ListComments — GET /comments?post_id=<id> (`git log`).
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	const op = "list"

	threads, err := h.svc.ListThreads(r.Context(), r.URL.Query().Get("post_id"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	h.metrics.ObserveOp(op, "ok")
	writeJSON(w, http.StatusOK, models.GitLogFromThreads(threads))
}

// GetComment — GET /comments/{hash} (`git show`).
func (h *Handlers) GetComment(w http.ResponseWriter, r *http.Request) {
	const op = "show"

	comm, err := h.svc.CommentByID(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	h.metrics.ObserveOp(op, "ok")
	writeJSON(w, http.StatusOK, models.CommentResponseFromComment(*comm))
}

// CreateComment — POST /comments (`git commit`).
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	const op = "create"

	var in models.CreateCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		h.fail(w, r, op, err)
		return
	}

	comm, err := h.svc.CreateComment(r.Context(), service.CreateCommentInput{
		PostID:     in.PostID,
		Author:     in.Author,
		Password:   in.Password,
		Message:    in.Message,
		ParentHash: in.ParentHash,
	})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	h.metrics.ObserveOp(op, "ok")
	writeJSON(w, http.StatusCreated, models.CreateCommentResponse{
		CommitHash: comm.Hash,
		Author:     comm.Author,
		Message:    fmt.Sprintf("[comment %s] %s", comm.Hash, comm.Message),
	})
}

// UpdateComment — PUT /comments (`git rebase -i`).
func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	const op = "update"

	var in models.UpdateCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		h.fail(w, r, op, err)
		return
	}

	comm, err := h.svc.UpdateComment(r.Context(), service.UpdateCommentInput{
		Hash:     in.CommitHash,
		Password: in.Password,
		Message:  in.Message,
	})
	if err != nil {
		h.fail(w, r, op, forbiddenMessage(err, "edited"))
		return
	}

	h.metrics.ObserveOp(op, "ok")
	writeJSON(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("[%s] Comment updated successfully", comm.Hash),
	})
}

// DeleteComment — DELETE /comments (`git reset --hard`).
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	const op = "delete"

	var in models.DeleteCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		h.fail(w, r, op, err)
		return
	}

	if err := h.svc.DeleteComment(r.Context(), service.DeleteCommentInput{
		Hash:     in.CommitHash,
		Password: in.Password,
	}); err != nil {
		h.fail(w, r, op, forbiddenMessage(err, "deleted"))
		return
	}

	h.metrics.ObserveOp(op, "ok")
	writeJSON(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Comment %s deleted.", strings.TrimSpace(in.CommitHash)),
	})
}

// forbiddenMessage уточняет текст 403 под действие.
func forbiddenMessage(err error, action string) error {
	if !errors.Is(err, service.ErrForbidden) {
		return err
	}

	return apierrors.WithMessage(err, fmt.Sprintf("This comment cannot be %s (no password set)", action))
}
