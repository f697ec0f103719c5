package web

import (
    "log/slog"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
)

// DefaultHeartbeat is the SSE keep-alive interval used when none is configured.
const DefaultHeartbeat = 15 * time.Second

// Options tune the HTTP frontend. Zero values fall back to defaults.
type Options struct {
    Logger    *slog.Logger
    Heartbeat time.Duration
}

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts Options) http.Handler {
    logger := opts.Logger
    if logger == nil {
        logger = slog.Default()
    }
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = DefaultHeartbeat
    }
    h := &handlers{
        svc:       s,
        tpl:       loadTemplates(),
        log:       logger.With("component", "web"),
        heartbeat: opts.Heartbeat,
    }
    s.SetRenderer(h.renderBoard)

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(requestLogger(h.log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
        r.Post("/select", h.selectCell)
        r.Post("/undo", h.undo)
        r.Post("/new", h.newGame)
        r.Post("/reset-scores", h.resetScores)
    })
    return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            next.ServeHTTP(ww, r)
            log.Debug("request",
                "method", r.Method,
                "path", r.URL.Path,
                "status", ww.Status(),
                "bytes", ww.BytesWritten(),
                "duration", time.Since(start),
                "request_id", middleware.GetReqID(r.Context()))
        })
    }
}
