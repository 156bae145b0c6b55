package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tic-tac-based/internal/app"
	"github.com/jaminalder/tic-tac-based/internal/validator"
)

type handlers struct {
	svc *app.Service
	tpl *templates
	log *slog.Logger
}

type cellRequest struct {
	Index int `validate:"min=0,max=8"`
}

type viewportRequest struct {
	Width int `validate:"required,min=1,max=20000"`
}

// renderApp renders the #app fragment; it doubles as the SSE broadcast renderer.
func (h *handlers) renderApp(s app.Session) []byte {
	b, err := renderTemplate(h.tpl.app, "", newAppData(s))
	if err != nil {
		h.log.Error("render app fragment", "session", s.ID, "error", err)
		return nil
	}
	return b
}

func (h *handlers) writeFragment(w http.ResponseWriter, s *app.Session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderApp(*s))
}

func (h *handlers) writePage(w http.ResponseWriter, s *app.Session) {
	b, err := renderTemplate(h.tpl.page, "", newPageData(*s))
	if err != nil {
		h.log.Error("render page", "session", s.ID, "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.log.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// index starts a fresh session for every page load.
func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Create(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePage(w, s)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePage(w, s)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	req := cellRequest{Index: idx}
	if err == nil {
		err = validator.GetValidator().Struct(req)
	}
	if err != nil {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}
	s, err := h.svc.SubmitMove(r.Context(), chi.URLParam(r, "id"), req.Index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeFragment(w, s)
}

func (h *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.NewGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeFragment(w, s)
}

func (h *handlers) resetStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ResetStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeFragment(w, s)
}

func (h *handlers) toggleControls(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ToggleControls(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeFragment(w, s)
}

func (h *handlers) viewport(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	width, err := strconv.Atoi(r.Form.Get("width"))
	req := viewportRequest{Width: width}
	if err == nil {
		err = validator.GetValidator().Struct(req)
	}
	if err != nil {
		http.Error(w, "invalid width", http.StatusBadRequest)
		return
	}
	s, err := h.svc.SetWidth(r.Context(), chi.URLParam(r, "id"), req.Width)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeFragment(w, s)
}

var heartbeatInterval = 15 * time.Second

// events streams server-side changes to the page. Opening the stream counts as
// mounting the view: it arms the overlay auto-hide, which is cancelled when the
// stream closes.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer unsub()
	h.svc.ArmOverlay(ctx, id)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: app\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(b))
			flusher.Flush()
		}
	}
}

// sseData continues a multi-line payload across data fields.
func sseData(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\n"), []byte("\ndata: "))
}
