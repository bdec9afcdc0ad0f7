package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/git-comments/internal/metrics"
	"github.com/pribylovaa/git-comments/internal/transport/http/handlers"
	"github.com/pribylovaa/git-comments/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger      *slog.Logger
	Timeout     time.Duration
	BasePath    string // например, "/api"; если пустой — роуты регистрируются на корне.
	AllowOrigin string
	Metrics     *metrics.Metrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.CommentService, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.RequestID(),            // id нужен логгеру и телу ошибки
		middleware.Logging(opts.Logger),   // request-scoped логгер в контексте + итоговая запись
		middleware.Recover(opts.Metrics),  // паника -> 500 внутри логирования, чтобы запись увидела статус
		middleware.CORS(opts.AllowOrigin), // preflight отвечаем до маршрутизации
		middleware.Metrics(opts.Metrics),
		middleware.Timeout(opts.Timeout, opts.Metrics), // <=0 — без дедлайна
	)

	h := handlers.New(svc, opts.Metrics)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/comments", h.ListComments)
	r.Post("/comments", h.CreateComment)
	r.Put("/comments", h.UpdateComment)
	r.Delete("/comments", h.DeleteComment)
	r.Get("/comments/{hash}", h.GetComment)
}
