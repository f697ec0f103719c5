package app

import (
    "context"
    "errors"
    "io"
    "log/slog"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/hotseat-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound = errors.New("session not found")
)

// GameState is a copy of a session as seen by callers.
type GameState struct {
    ID      string
    View    View
    Created time.Time
    Updated time.Time
}

type session struct {
    id      string
    adapter *Adapter
    created time.Time
    updated time.Time
}

func (s *session) state() GameState {
    return GameState{ID: s.id, View: s.adapter.View(), Created: s.created, Updated: s.updated}
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages browser sessions, each owning one engine, and their subscribers.
// The mutex gives every gesture exclusive access to its session.
type Service struct {
    mu       sync.Mutex
    sessions map[string]*session
    subs     map[string]map[*subscriber]struct{}
    render   func(GameState) []byte
    log      *slog.Logger
    ttl      time.Duration
    now      func() time.Time
}

// NewService creates a service. Sessions idle for longer than ttl are evicted
// by Sweep; a ttl of zero keeps them forever.
func NewService(logger *slog.Logger, ttl time.Duration) *Service {
    if logger == nil {
        logger = discardLogger()
    }
    return &Service{
        sessions: make(map[string]*session),
        subs:     make(map[string]map[*subscriber]struct{}),
        render:   func(GameState) []byte { return nil },
        log:      logger.With("component", "service"),
        ttl:      ttl,
        now:      time.Now,
    }
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateSession starts a fresh engine under a new id.
func (s *Service) CreateSession() (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    id := uuid.NewString()
    now := s.now()
    sess := &session{
        id:      id,
        adapter: NewAdapter(domain.NewEngine(), s.log.With("session", id)),
        created: now,
        updated: now,
    }
    s.sessions[id] = sess
    s.log.Info("session created", "session", id)
    gs := sess.state()
    return &gs, nil
}

// Get returns a copy of the session state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.sessions[id]
    if !ok {
        return nil, false
    }
    gs := sess.state()
    return &gs, true
}

// SelectCell forwards a cell selection. Ignored moves are not errors.
func (s *Service) SelectCell(id string, index int) (*GameState, error) {
    return s.apply(id, func(a *Adapter) bool { return a.SelectCell(index) })
}

// Undo forwards an undo gesture.
func (s *Service) Undo(id string) (*GameState, error) {
    return s.apply(id, (*Adapter).Undo)
}

// NewGame forwards a new game gesture.
func (s *Service) NewGame(id string) (*GameState, error) {
    return s.apply(id, (*Adapter).NewGame)
}

// ResetScores forwards a reset scores gesture.
func (s *Service) ResetScores(id string) (*GameState, error) {
    return s.apply(id, (*Adapter).ResetScores)
}

// apply runs gesture under the lock and broadcasts the new state if it changed.
func (s *Service) apply(id string, gesture func(*Adapter) bool) (*GameState, error) {
    s.mu.Lock()
    sess, ok := s.sessions[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    changed := gesture(sess.adapter)
    sess.updated = s.now()
    cp := sess.state()
    if changed {
        s.broadcastLocked(id, s.render(cp))
    }
    s.mu.Unlock()
    return &cp, nil
}

// broadcastLocked fans payload out without blocking. Slow subscribers are
// closed and dropped. Sends happen under the lock so no channel is closed
// mid-send by Subscribe or Sweep.
func (s *Service) broadcastLocked(id string, payload []byte) {
    set := s.subs[id]
    dropped := 0
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            sub.close()
            delete(set, sub)
            dropped++
        }
    }
    if dropped > 0 {
        s.log.Debug("dropped slow subscribers", "session", id, "count", dropped)
    }
}

// Subscribe registers a subscriber for a session. Returns a channel and an
// unsubscribe func. The channel is closed immediately for unknown sessions.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sub := &subscriber{ch: make(chan []byte, 1)}
    if _, ok := s.sessions[id]; !ok {
        sub.close()
        return sub.ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    set[sub] = struct{}{}

    done := make(chan struct{})
    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            close(done)
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
                if len(set) == 0 {
                    delete(s.subs, id)
                }
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        select {
        case <-ctx.Done():
            unsub()
        case <-done:
        }
    }()
    return sub.ch, unsub
}

// Sweep evicts sessions idle since before now-ttl and closes their
// subscribers. It returns the number of evicted sessions.
func (s *Service) Sweep(now time.Time) int {
    if s.ttl <= 0 {
        return 0
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    evicted := 0
    for id, sess := range s.sessions {
        if now.Sub(sess.updated) < s.ttl {
            continue
        }
        delete(s.sessions, id)
        for sub := range s.subs[id] {
            sub.close()
        }
        delete(s.subs, id)
        evicted++
    }
    if evicted > 0 {
        s.log.Info("evicted idle sessions", "count", evicted, "remaining", len(s.sessions))
    }
    return evicted
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
    if interval <= 0 || s.ttl <= 0 {
        return
    }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case t := <-ticker.C:
            s.Sweep(t)
        }
    }
}

func discardLogger() *slog.Logger {
    return slog.New(slog.NewTextHandler(io.Discard, nil))
}
