package web

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/tic-tac-based/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// fragment renderer used for server-pushed updates.
func NewServer(s *app.Service, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "web")

	h := &handlers{svc: s, tpl: loadTemplates(), log: log}
	s.SetRenderer(h.renderApp)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", h.health)
	r.Route("/s/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/cells/{index}", h.move)
		r.Post("/new", h.newGame)
		r.Post("/stats/reset", h.resetStats)
		r.Post("/controls/toggle", h.toggleControls)
		r.Post("/viewport", h.viewport)
		r.Get("/events", h.events)
	})
	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
