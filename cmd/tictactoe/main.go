package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/config"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/domain"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/tui"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
    defer func() {
        if err := recover(); err != nil {
            fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
            os.Exit(1)
        }
    }()

    configPath := flag.String("config", "", "path to config.yml (optional)")
    frontend := flag.String("frontend", "", "override frontend: web or tui")
    flag.Parse()

    conf := config.MustLoad(*configPath)
    if *frontend != "" {
        conf.Frontend = *frontend
        if err := conf.Validate(); err != nil {
            panic(err)
        }
    }

    logger, closeLog := initLogger(conf)
    defer closeLog()

    ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer cancel()

    var err error
    switch conf.Frontend {
    case config.FrontendTUI:
        err = runTUI(ctx, logger)
    default:
        err = runWeb(ctx, logger, conf)
    }
    if err != nil {
        logger.Error("app run failed", "error", err)
        closeLog()
        os.Exit(1)
    }
}

// initLogger builds a JSON slog logger. The terminal frontend owns stdout, so
// it logs to the configured file or nowhere.
func initLogger(conf *config.Config) (*slog.Logger, func()) {
    level, _ := conf.Level()

    var out io.Writer = os.Stdout
    if conf.Frontend == config.FrontendTUI {
        out = io.Discard
    }
    closeFn := func() {}
    if conf.LogFile != "" {
        f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
        if err != nil {
            panic(fmt.Errorf("open log file: %w", err))
        }
        out = io.MultiWriter(out, f)
        closeFn = func() { _ = f.Close() }
    }

    logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
    slog.SetDefault(logger)
    return logger, closeFn
}

func runTUI(ctx context.Context, logger *slog.Logger) error {
    ui := tui.New(app.NewAdapter(domain.NewEngine(), logger), logger)
    go func() {
        <-ctx.Done()
        ui.Stop()
    }()
    return ui.Run()
}

func runWeb(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
    log := logger.With("component", "app")

    svc := app.NewService(logger, conf.Session.TTL)
    go svc.Run(ctx, conf.Session.SweepInterval)

    srv := &http.Server{
        Addr:         conf.HTTP.Addr,
        Handler:      web.NewServer(svc, web.Options{Logger: logger, Heartbeat: conf.SSE.Heartbeat}),
        ReadTimeout:  conf.HTTP.ReadTimeout,
        WriteTimeout: conf.HTTP.WriteTimeout,
        BaseContext:  func(net.Listener) context.Context { return ctx },
    }

    errCh := make(chan error, 1)
    go func() {
        log.Info("Starting HTTP server", "addr", conf.HTTP.Addr)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            errCh <- err
        }
        close(errCh)
    }()

    select {
    case err := <-errCh:
        if err != nil {
            return fmt.Errorf("HTTP server error: %w", err)
        }
        return nil
    case <-ctx.Done():
        log.Info("Received signal, shutting down")
    }

    shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        return fmt.Errorf("HTTP shutdown: %w", err)
    }
    return nil
}
