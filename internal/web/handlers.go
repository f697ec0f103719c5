package web

import (
    "encoding/json"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
)

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       *slog.Logger
    heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState) []byte {
    return renderTemplate(h.tpl.board, "", boardData{ID: gs.ID, View: gs.View})
}

func writeHTML(w http.ResponseWriter, b []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    writeHTML(w, renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateSession()
    if err != nil {
        h.log.Error("create session", "error", err)
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    // Render page with embedded board container
    writeHTML(w, renderTemplate(h.tpl.game, "base", boardData{ID: gs.ID, View: gs.View}))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    if err := json.NewEncoder(w).Encode(gs.View); err != nil {
        h.log.Error("encode state", "error", err, "session", gs.ID)
    }
}

// cellIndex reads the "cell" form value. Anything unparsable maps to -1 so the
// engine ignores it like any other out-of-range selection.
func cellIndex(r *http.Request) int {
    _ = r.ParseForm()
    i, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("cell")))
    if err != nil {
        return -1
    }
    return i
}

func (h *handlers) selectCell(w http.ResponseWriter, r *http.Request) {
    idx := cellIndex(r)
    h.gesture(w, r, func(id string) (*app.GameState, error) { return h.svc.SelectCell(id, idx) })
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
    h.gesture(w, r, h.svc.Undo)
}

func (h *handlers) newGame(w http.ResponseWriter, r *http.Request) {
    h.gesture(w, r, h.svc.NewGame)
}

func (h *handlers) resetScores(w http.ResponseWriter, r *http.Request) {
    h.gesture(w, r, h.svc.ResetScores)
}

// gesture runs op for the session in the URL and responds with the board fragment.
func (h *handlers) gesture(w http.ResponseWriter, r *http.Request, op func(id string) (*app.GameState, error)) {
    gs, err := op(chi.URLParam(r, "id"))
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    writeHTML(w, h.renderBoard(*gs))
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
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
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(h.heartbeat)
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
            if !ok { return }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", name)
    for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}
